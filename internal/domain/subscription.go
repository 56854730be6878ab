package domain

// Table key layout: every record lives in one table under a composite
// (partitionKey, sortKey) primary key. The partition key is always the
// subscriber's email address; the sort key discriminates record kinds.
const (
	// SortKeySignup is the sort key of the single subscription record per email.
	SortKeySignup = "NEWSLETTER_SIGNUP"
	// SortKeySentPrefix prefixes send-event sort keys: "EMAIL_SENT#<timestamp>".
	SortKeySentPrefix = "EMAIL_SENT#"
	// SentTimestampLayout is the second-resolution layout of send-event
	// timestamps (YYYYMMDDHHMMSS). Two sends to the same address within the
	// same second collide on the sort key; the conditional write rejects the
	// second one. Known limitation, kept as-is.
	SentTimestampLayout = "20060102150405"
)

// is_subscribed is stored as a string rather than a boolean because the
// subscriber GSI uses it as its hash key, and DynamoDB key attributes
// cannot be of type BOOL.
const (
	SubscribedTrue  = "true"
	SubscribedFalse = "false"
)

// Subscription is the durable per-email state record tracking a subscriber
// through the signup/validation/subscription lifecycle. Exactly one exists
// per email; creation is conditional on absence so the first signup wins.
type Subscription struct {
	Email        string `json:"email" dynamodbav:"partitionKey"`
	SortKey      string `json:"-" dynamodbav:"sortKey"`
	Token        string `json:"-" dynamodbav:"random_string"`
	IsValidated  bool   `json:"is_validated" dynamodbav:"is_validated,omitempty"`
	IsSubscribed string `json:"is_subscribed,omitempty" dynamodbav:"is_subscribed,omitempty"`
}

// NewSubscription builds a pending subscription record for a fresh signup.
func NewSubscription(email, token string) *Subscription {
	return &Subscription{
		Email:   email,
		SortKey: SortKeySignup,
		Token:   token,
	}
}

// Subscribed reports whether the record is currently opted in.
func (s *Subscription) Subscribed() bool {
	return s.IsSubscribed == SubscribedTrue
}

// SendEvent is the audit record written alongside every outbound email.
// It is never updated or deleted: it anchors unsubscribe authorization by
// proving the requester received that specific dispatched email.
type SendEvent struct {
	Email   string `json:"email" dynamodbav:"partitionKey"`
	SortKey string `json:"-" dynamodbav:"sortKey"`
	Token   string `json:"-" dynamodbav:"random_string"`
}

// NewSendEvent builds a send-event record for an email dispatched at the
// given YYYYMMDDHHMMSS timestamp. The token is minted per dispatch and is
// independent of the subscription token.
func NewSendEvent(email, timestamp, token string) *SendEvent {
	return &SendEvent{
		Email:   email,
		SortKey: SentSortKey(timestamp),
		Token:   token,
	}
}

// SentSortKey returns the send-event sort key for a dispatch timestamp.
func SentSortKey(timestamp string) string {
	return SortKeySentPrefix + timestamp
}
