package event

import (
	"fmt"

	"github.com/google/uuid"
)

// identityNamespace is the fixed UUIDv5 namespace for event identities.
// Changing it would re-key every subscribed feed, so it never changes.
var identityNamespace = uuid.MustParse("5c7c57aa-6f3a-4f26-9d0e-2b9c4a81d3f1")

// Identity derives the stable identity for one occurrence of an upstream
// session. It is a pure function of the provider name, the provider-issued
// source key and the occurrence index, so repeated polls produce the same
// identity for the same session. Expanded week occurrences use the week
// number as the index; concrete one-off events use 0.
//
// Components are length-prefixed before hashing. Source keys may contain
// any character, so a plain separator could not keep the provider and
// source key boundaries unambiguous.
func Identity(provider, sourceKey string, occurrence int) string {
	encoded := fmt.Sprintf("%d:%s%d:%s%d", len(provider), provider, len(sourceKey), sourceKey, occurrence)
	return uuid.NewSHA1(identityNamespace, []byte(encoded)).String()
}
