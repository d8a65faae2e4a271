package types

import "strconv"

// Liver is a single talent, optionally attached to an affiliation.
type Liver struct {
	ID            LiverID         `json:"liver_id"`
	AffiliationID *AffiliationID  `json:"affiliation_id,omitempty"`
	Name          string          `json:"name"`
	LocalizedName string          `json:"localized_name"`
	Signature     UpdateSignature `json:"update_signatures"`
}

// NewLiver builds a liver record from primitives. affiliationID may be
// nil for unaffiliated (indie) livers.
func NewLiver(id int64, affiliationID *int64, name, localizedName string, signature int64) Liver {
	var aff *AffiliationID
	if affiliationID != nil {
		v := AffiliationID(*affiliationID)
		aff = &v
	}
	return Liver{
		ID:            LiverID(id),
		AffiliationID: aff,
		Name:          name,
		LocalizedName: localizedName,
		Signature:     UpdateSignature(signature),
	}
}

func (l Liver) Version() UpdateSignature { return l.Signature }

func (l Liver) WithSignature(sig UpdateSignature) Liver {
	l.Signature = sig
	return l
}

// ContentEquals compares every mutable field except the signature.
func (l Liver) ContentEquals(other Liver) bool {
	return l.ID == other.ID &&
		equalIDPtr(l.AffiliationID, other.AffiliationID) &&
		l.Name == other.Name &&
		l.LocalizedName == other.LocalizedName
}

func (l Liver) PrimaryName() string { return l.Name }

func (l Liver) SecondaryName() string { return strconv.FormatInt(int64(l.ID), 10) }

func equalIDPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
