package ldap

import (
	"fmt"

	ber "github.com/go-asn1-ber/asn1-ber"
)

// BER tags for the two places LDAP URLs travel on the wire (RFC 4511):
//
//	LDAPResult.referral   [3] Referral       -- Referral ::= SEQUENCE OF uri URI
//	SearchResultReference ::= [APPLICATION 19] SEQUENCE OF uri URI
const (
	TagReferral              ber.Tag = 3
	TagSearchResultReference ber.Tag = 19
)

// EncodeReferral encodes urls as the referral field of an LDAPResult.
func EncodeReferral(urls []*URL) (*ber.Packet, error) {
	packet := ber.Encode(ber.ClassContext, ber.TypeConstructed, TagReferral, nil, "Referral")
	if err := appendURIs(packet, urls); err != nil {
		return nil, err
	}
	return packet, nil
}

// EncodeSearchResultReference encodes urls as a SearchResultReference.
func EncodeSearchResultReference(urls []*URL) (*ber.Packet, error) {
	packet := ber.Encode(ber.ClassApplication, ber.TypeConstructed, TagSearchResultReference, nil, "Search Result Reference")
	if err := appendURIs(packet, urls); err != nil {
		return nil, err
	}
	return packet, nil
}

func appendURIs(packet *ber.Packet, urls []*URL) error {
	if len(urls) == 0 {
		return fmt.Errorf("referral must contain at least one URL")
	}
	for i, u := range urls {
		if u == nil {
			return fmt.Errorf("referral URL %d is nil", i)
		}
		packet.AppendChild(ber.NewString(ber.ClassUniversal, ber.TypePrimitive, ber.TagOctetString, u.String(), "URI"))
	}
	return nil
}

// DecodeReferral decodes a BER referral or SearchResultReference and parses
// each URI it carries.
func DecodeReferral(data []byte) ([]*URL, error) {
	packet, err := ber.DecodePacketErr(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode referral: %w", err)
	}

	switch {
	case packet.ClassType == ber.ClassContext && packet.Tag == TagReferral:
	case packet.ClassType == ber.ClassApplication && packet.Tag == TagSearchResultReference:
	default:
		return nil, fmt.Errorf("unexpected BER element class %d tag %d, expected a referral", packet.ClassType, packet.Tag)
	}

	if packet.TagType != ber.TypeConstructed || len(packet.Children) == 0 {
		return nil, fmt.Errorf("referral must contain at least one URL")
	}

	urls := make([]*URL, 0, len(packet.Children))
	for i, child := range packet.Children {
		if child.ClassType != ber.ClassUniversal || child.Tag != ber.TagOctetString {
			return nil, fmt.Errorf("referral element %d is not an OCTET STRING", i)
		}

		u, err := ParseBytes(child.ByteValue)
		if err != nil {
			return nil, fmt.Errorf("referral element %d: %w", i, err)
		}
		urls = append(urls, u)
	}

	return urls, nil
}
