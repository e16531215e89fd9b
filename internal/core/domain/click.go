package domain

import (
	"strconv"
	"strings"
)

type Gender string

const (
	GenderFemale  Gender = "female"
	GenderMale    Gender = "male"
	GenderUnknown Gender = "unknown"
)

// UnknownAgent is the sentinel for an absent or empty user-agent.
const UnknownAgent = "unknown"

// UnknownBucket keys histogram buckets that cannot be derived.
const UnknownBucket = "unknown"

// ClickRow is one raw redirect event as stored in the relational log.
// The log's advertiser_id column holds the ad's numeric id and isuad holds
// the raw tracking-cookie value; the field names here reflect what the
// columns actually store.
type ClickRow struct {
	AdID      int64
	UserKey   string
	UserAgent string
}

// ClickEvent is a ClickRow with the user key decoded and the user-agent
// normalized.
type ClickEvent struct {
	AdID     int64
	User     string
	Agent    string
	Gender   Gender
	Age      int
	AgeKnown bool
}

// Generation buckets the event's age by decade, or UnknownBucket when the
// age could not be decoded.
func (e ClickEvent) Generation() string {
	if !e.AgeKnown {
		return UnknownBucket
	}
	return strconv.Itoa(e.Age / 10)
}

// DecodedUser holds the demographic attributes carried by a tracking cookie.
type DecodedUser struct {
	Gender   Gender
	Age      int
	AgeKnown bool
}

// DecodeUserKey parses a tracking-cookie value of the form "gender/age"
// (gender bit: 0 female, nonzero male). An absent cookie, a non-numeric
// gender segment, or a missing/non-numeric age segment decodes to unknown.
func DecodeUserKey(key string) DecodedUser {
	if key == "" {
		return DecodedUser{Gender: GenderUnknown}
	}

	genderPart, agePart, hasAge := strings.Cut(key, "/")

	genderBit, err := strconv.Atoi(genderPart)
	if err != nil {
		return DecodedUser{Gender: GenderUnknown}
	}

	gender := GenderMale
	if genderBit == 0 {
		gender = GenderFemale
	}

	if !hasAge {
		return DecodedUser{Gender: gender}
	}
	age, err := strconv.Atoi(agePart)
	if err != nil || age < 0 {
		return DecodedUser{Gender: gender}
	}
	return DecodedUser{Gender: gender, Age: age, AgeKnown: true}
}

// NewClickEvent decodes a raw log row into a click event.
func NewClickEvent(row ClickRow) ClickEvent {
	agent := row.UserAgent
	if agent == "" {
		agent = UnknownAgent
	}

	user := DecodeUserKey(row.UserKey)

	return ClickEvent{
		AdID:     row.AdID,
		User:     row.UserKey,
		Agent:    agent,
		Gender:   user.Gender,
		Age:      user.Age,
		AgeKnown: user.AgeKnown,
	}
}
