package types

import "strconv"

// Affiliation is an agency/group a liver belongs to.
type Affiliation struct {
	ID        AffiliationID   `json:"affiliation_id"`
	Name      string          `json:"name"`
	Signature UpdateSignature `json:"update_signatures"`
}

// NewAffiliation builds an affiliation record from primitives.
func NewAffiliation(id int64, name string, signature int64) Affiliation {
	return Affiliation{
		ID:        AffiliationID(id),
		Name:      name,
		Signature: UpdateSignature(signature),
	}
}

// Version returns the record's update signature.
func (a Affiliation) Version() UpdateSignature { return a.Signature }

// WithSignature returns a copy of the record carrying sig.
func (a Affiliation) WithSignature(sig UpdateSignature) Affiliation {
	a.Signature = sig
	return a
}

// ContentEquals compares every mutable field except the signature, so
// callers can distinguish "nothing changed" from "only the version
// advanced".
func (a Affiliation) ContentEquals(other Affiliation) bool {
	return a.ID == other.ID && a.Name == other.Name
}

// PrimaryName is the human-readable handle used in ingest logs.
func (a Affiliation) PrimaryName() string { return a.Name }

// SecondaryName is the key rendered next to PrimaryName in logs.
func (a Affiliation) SecondaryName() string { return strconv.FormatInt(int64(a.ID), 10) }
