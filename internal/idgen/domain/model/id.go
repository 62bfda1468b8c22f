package model

import (
	"fmt"
	"strconv"
	"time"
)

const (
	// DefaultWidth is used when a Request leaves Width at zero.
	DefaultWidth = 9
	// MaxSequence is the largest sequence a bucket may hand out (12 decimal digits).
	MaxSequence uint64 = 999_999_999_999
	// CounterCollection holds one counter document per bucket.
	CounterCollection = "meta"
)

// Request describes what to allocate. Collection names the counter bucket, Prefix
// tags the formatted id.
type Request struct {
	Collection string
	Prefix     string
	Width      int
}

// Counter is the persisted state of one bucket.
type Counter struct {
	BucketKey  string `bson:"_id" json:"bucketKey"`
	LastNumber uint64 `bson:"lastNumber" json:"lastNumber"`
}

// Kinds of identifiers minted by the service. Collection names match the
// counter documents already in the meta collection.
var (
	UserID         = Request{Collection: "users", Prefix: "US"}
	ChatID         = Request{Collection: "chats", Prefix: "CH"}
	MessageID      = Request{Collection: "message", Prefix: "MS", Width: 12}
	PastEventID    = Request{Collection: "pastEvents", Prefix: "PE", Width: 12}
	NowEventID     = Request{Collection: "nowEvents", Prefix: "NE", Width: 12}
	FutureEventID  = Request{Collection: "futureEvents", Prefix: "FE", Width: 12}
	ReferenceID    = Request{Collection: "reference", Prefix: "RF", Width: 12}
	CommentID      = Request{Collection: "comments", Prefix: "C", Width: 12}
	TravelPlanID   = Request{Collection: "travelPlans", Prefix: "TP"}
	DailyPlanID    = Request{Collection: "dailyPlans", Prefix: "DP", Width: 12}
	ScheduleItemID = Request{Collection: "scheduleItems", Prefix: "SI", Width: 14}
	LocationID     = Request{Collection: "locations", Prefix: "LOC"}
)

// EffectiveWidth returns the padding width, applying the default.
func (r Request) EffectiveWidth() int {
	if r.Width <= 0 {
		return DefaultWidth
	}
	return r.Width
}

// Validate checks the request is usable.
func (r Request) Validate() error {
	if r.Collection == "" {
		return fmt.Errorf("collection is required")
	}
	if r.Prefix == "" {
		return fmt.Errorf("prefix is required")
	}
	if r.Width < 0 {
		return fmt.Errorf("width must not be negative")
	}
	return nil
}

// period renders the two-digit year followed by the unpadded month.
func period(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("%02d%d", t.Year()%100, int(t.Month()))
}

// BucketKey returns the counter document id for collection at t, e.g. "users253Counter".
func BucketKey(collection string, t time.Time) string {
	return collection + period(t) + "Counter"
}

// Format renders prefix + YY + M + zero-padded sequence. Sequences wider than
// width are not truncated.
func Format(prefix string, t time.Time, seq uint64, width int) string {
	if width <= 0 {
		width = DefaultWidth
	}
	digits := strconv.FormatUint(seq, 10)
	if pad := width - len(digits); pad > 0 {
		digits = fmt.Sprintf("%0*d", width, seq)
	}
	return prefix + period(t) + digits
}
