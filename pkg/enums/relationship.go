package enums

import "fmt"

// Relationship describes how an emergency contact relates to the person.
type Relationship string

const (
	RelationshipSon       Relationship = "son"
	RelationshipDaughter  Relationship = "daughter"
	RelationshipSpouse    Relationship = "spouse"
	RelationshipSibling   Relationship = "sibling"
	RelationshipParent    Relationship = "parent"
	RelationshipFriend    Relationship = "friend"
	RelationshipCaregiver Relationship = "caregiver"
	RelationshipOther     Relationship = "other"
)

var validRelationships = []Relationship{
	RelationshipSon,
	RelationshipDaughter,
	RelationshipSpouse,
	RelationshipSibling,
	RelationshipParent,
	RelationshipFriend,
	RelationshipCaregiver,
	RelationshipOther,
}

func (r Relationship) String() string {
	return string(r)
}

// IsValid reports whether the value is a known Relationship.
func (r Relationship) IsValid() bool {
	for _, candidate := range validRelationships {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRelationship converts raw input into a Relationship.
func ParseRelationship(value string) (Relationship, error) {
	for _, candidate := range validRelationships {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid relationship %q", value)
}
