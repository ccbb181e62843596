package internal

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// BucketKind tags a Bucket. Today, Tomorrow and ThisWeek are the seeded defaults whose membership is
// also derived from due dates; Custom buckets only ever hold manually assigned tasks.
type BucketKind uint8

const (
	BucketKindToday BucketKind = iota + 1
	BucketKindTomorrow
	BucketKindThisWeek
	BucketKindCustom
)

// String ...
func (k BucketKind) String() string {
	switch k {
	case BucketKindToday:
		return "today"
	case BucketKindTomorrow:
		return "tomorrow"
	case BucketKindThisWeek:
		return "this-week"
	case BucketKindCustom:
		return "custom"
	}

	return "unknown"
}

// IsDefault reports whether the kind belongs to a seeded, date-derived bucket.
func (k BucketKind) IsDefault() bool {
	return k == BucketKindToday || k == BucketKindTomorrow || k == BucketKindThisWeek
}

// Validate ...
func (k BucketKind) Validate() error {
	if k < BucketKindToday || k > BucketKindCustom {
		return NewErrorf(ErrorCodeInvalidArgument, "unknown bucket kind")
	}

	return nil
}

// MarshalText ...
func (k BucketKind) MarshalText() ([]byte, error) {
	if err := k.Validate(); err != nil {
		return nil, err
	}

	return []byte(k.String()), nil
}

// UnmarshalText ...
func (k *BucketKind) UnmarshalText(b []byte) error {
	v, err := ParseBucketKind(string(b))
	if err != nil {
		return err
	}

	*k = v

	return nil
}

// ParseBucketKind converts the textual form returned by String back into a BucketKind.
func ParseBucketKind(s string) (BucketKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "today":
		return BucketKindToday, nil
	case "tomorrow":
		return BucketKindTomorrow, nil
	case "this-week", "thisweek", "this_week":
		return BucketKindThisWeek, nil
	case "custom":
		return BucketKindCustom, nil
	}

	return 0, NewErrorf(ErrorCodeInvalidArgument, "unknown bucket kind %q", s)
}

// BucketColors is the palette new custom buckets cycle through.
var BucketColors = []string{
	"#2563eb",
	"#16a34a",
	"#d97706",
	"#dc2626",
	"#7c3aed",
	"#0891b2",
	"#db2777",
	"#4b5563",
}

// BucketColor returns the palette color for the n-th bucket of an organization.
func BucketColor(n int) string {
	if n < 0 {
		n = -n
	}

	return BucketColors[n%len(BucketColors)]
}

// Bucket is a named grouping of tasks.
type Bucket struct {
	ID             string
	OrganizationID string
	Name           string
	Kind           BucketKind
	Color          string
	Order          int
	Archived       bool
	ArchivedAt     time.Time
	CreatedAt      time.Time
}

// IsDefault reports whether this is one of the seeded buckets.
func (b Bucket) IsDefault() bool {
	return b.Kind.IsDefault()
}

// Validate ...
func (b Bucket) Validate() error {
	if err := validation.ValidateStruct(&b,
		validation.Field(&b.OrganizationID, validation.Required),
		validation.Field(&b.Name, validation.Required, validation.Length(1, 64)),
		validation.Field(&b.Kind, validation.Required),
		validation.Field(&b.Order, validation.Min(0)),
	); err != nil {
		return WrapErrorf(err, ErrorCodeInvalidArgument, "invalid values")
	}

	return nil
}

// DefaultBuckets returns the buckets every organization is seeded with, without ids.
func DefaultBuckets(organizationID string) []Bucket {
	return []Bucket{
		{OrganizationID: organizationID, Name: "Today", Kind: BucketKindToday, Color: BucketColor(0), Order: 0},
		{OrganizationID: organizationID, Name: "Tomorrow", Kind: BucketKindTomorrow, Color: BucketColor(1), Order: 1},
		{OrganizationID: organizationID, Name: "This Week", Kind: BucketKindThisWeek, Color: BucketColor(2), Order: 2},
	}
}

// Assignment pins a task into a bucket regardless of its due date. A task has at most one.
type Assignment struct {
	OrganizationID string
	TaskID         string
	BucketID       string
	AssignedAt     time.Time
	// MovedFrom is the bucket the task was assigned to before, if any.
	MovedFrom string
}
