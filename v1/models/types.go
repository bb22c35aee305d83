package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Gender represents a member's recorded gender
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Scan implements the sql.Scanner interface for Gender
func (g *Gender) Scan(value interface{}) error {
	if value == nil {
		*g = ""
		return nil
	}
	if str, ok := value.(string); ok {
		*g = Gender(str)
		return nil
	}
	return fmt.Errorf("cannot scan %T into Gender", value)
}

// Value implements the driver.Valuer interface for Gender
func (g Gender) Value() (driver.Value, error) {
	return string(g), nil
}

// IsValid checks if the gender is one of the accepted values
func (g Gender) IsValid() bool {
	return g == GenderMale || g == GenderFemale
}

// EventStatus represents the lifecycle state of an event
type EventStatus string

const (
	EventStatusScheduled EventStatus = "scheduled"
	EventStatusCompleted EventStatus = "completed"
	EventStatusCancelled EventStatus = "cancelled"
)

// Scan implements the sql.Scanner interface for EventStatus
func (es *EventStatus) Scan(value interface{}) error {
	if value == nil {
		*es = EventStatusScheduled
		return nil
	}
	if str, ok := value.(string); ok {
		*es = EventStatus(str)
		return nil
	}
	return fmt.Errorf("cannot scan %T into EventStatus", value)
}

// Value implements the driver.Valuer interface for EventStatus
func (es EventStatus) Value() (driver.Value, error) {
	return string(es), nil
}

// IsValid checks if the event status is one of the accepted values
func (es EventStatus) IsValid() bool {
	switch es {
	case EventStatusScheduled, EventStatusCompleted, EventStatusCancelled:
		return true
	}
	return false
}

// ContributionType represents the kind of financial contribution
type ContributionType string

const (
	ContributionTypeTithe    ContributionType = "tithe"
	ContributionTypeOffering ContributionType = "offering"
	ContributionTypeDonation ContributionType = "donation"
	ContributionTypePledge   ContributionType = "pledge"
)

// Scan implements the sql.Scanner interface for ContributionType
func (ct *ContributionType) Scan(value interface{}) error {
	if value == nil {
		*ct = ContributionTypeOffering
		return nil
	}
	if str, ok := value.(string); ok {
		*ct = ContributionType(str)
		return nil
	}
	return fmt.Errorf("cannot scan %T into ContributionType", value)
}

// Value implements the driver.Valuer interface for ContributionType
func (ct ContributionType) Value() (driver.Value, error) {
	return string(ct), nil
}

// IsValid checks if the contribution type is one of the accepted values
func (ct ContributionType) IsValid() bool {
	switch ct {
	case ContributionTypeTithe, ContributionTypeOffering, ContributionTypeDonation, ContributionTypePledge:
		return true
	}
	return false
}

// ContributionMethod represents how a contribution was received
type ContributionMethod string

const (
	ContributionMethodCash         ContributionMethod = "cash"
	ContributionMethodBankTransfer ContributionMethod = "bank_transfer"
	ContributionMethodMobileMoney  ContributionMethod = "mobile_money"
	ContributionMethodCard         ContributionMethod = "card"
)

// Scan implements the sql.Scanner interface for ContributionMethod
func (cm *ContributionMethod) Scan(value interface{}) error {
	if value == nil {
		*cm = ContributionMethodCash
		return nil
	}
	if str, ok := value.(string); ok {
		*cm = ContributionMethod(str)
		return nil
	}
	return fmt.Errorf("cannot scan %T into ContributionMethod", value)
}

// Value implements the driver.Valuer interface for ContributionMethod
func (cm ContributionMethod) Value() (driver.Value, error) {
	return string(cm), nil
}

// IsValid checks if the contribution method is one of the accepted values
func (cm ContributionMethod) IsValid() bool {
	switch cm {
	case ContributionMethodCash, ContributionMethodBankTransfer, ContributionMethodMobileMoney, ContributionMethodCard:
		return true
	}
	return false
}

// Audience represents who an announcement targets
type Audience string

const (
	AudienceAll      Audience = "all"
	AudienceMinistry Audience = "ministry"
	AudienceCell     Audience = "cell"
)

// Scan implements the sql.Scanner interface for Audience
func (a *Audience) Scan(value interface{}) error {
	if value == nil {
		*a = AudienceAll
		return nil
	}
	if str, ok := value.(string); ok {
		*a = Audience(str)
		return nil
	}
	return fmt.Errorf("cannot scan %T into Audience", value)
}

// Value implements the driver.Valuer interface for Audience
func (a Audience) Value() (driver.Value, error) {
	return string(a), nil
}

// IsValid checks if the audience is one of the accepted values
func (a Audience) IsValid() bool {
	switch a {
	case AudienceAll, AudienceMinistry, AudienceCell:
		return true
	}
	return false
}

// StringSlice stores a string slice as a JSON column so the same model works
// on PostgreSQL and the SQLite test databases.
type StringSlice []string

// Scan implements the sql.Scanner interface for StringSlice
func (ss *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*ss = StringSlice{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into StringSlice", value)
	}

	return json.Unmarshal(bytes, ss)
}

// Value implements the driver.Valuer interface for StringSlice
func (ss StringSlice) Value() (driver.Value, error) {
	data, err := json.Marshal(ss)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Contains reports whether the slice holds the given string
func (ss StringSlice) Contains(s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
