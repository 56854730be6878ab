package domain

// SignupRequest carries the decoded signup form fields.
type SignupRequest struct {
	Email  string `json:"email" validate:"required,email"`
	Secret string `json:"secret" validate:"required"`
}

// ValidateRequest carries the query parameters of a validation link click.
// Email arrives urlsafe-base64 encoded, exactly as embedded in the link.
type ValidateRequest struct {
	EmailB64 string `json:"email" validate:"required"`
	Token    string `json:"random_string" validate:"required"`
}

// UnsubscribeRequest carries the query parameters of an unsubscribe link
// click. EmailSent is the YYYYMMDDHHMMSS timestamp naming the dispatched
// email whose token is offered as proof.
type UnsubscribeRequest struct {
	EmailB64  string `json:"email" validate:"required"`
	Token     string `json:"random_string" validate:"required"`
	EmailSent string `json:"email_sent" validate:"required,len=14,numeric"`
}

// SendRequest selects a newsletter template and subject for a bulk dispatch.
type SendRequest struct {
	Slug    string `json:"slug" validate:"required"`
	Subject string `json:"subject" validate:"required"`
}

// DispatchReport summarises one bulk newsletter run. Failed counts
// recipients whose send errored and were skipped; the run itself still
// succeeds (best-effort, no retries).
type DispatchReport struct {
	DispatchID string `json:"dispatch_id"`
	Slug       string `json:"slug"`
	EmailSent  string `json:"email_sent"`
	Attempted  int    `json:"attempted"`
	Sent       int    `json:"sent"`
	Failed     int    `json:"failed"`
}

// TemplateBundle holds the two halves of a template object from the barn
// bucket, already split on the separator marker. Both halves are liquid
// source, not rendered output.
type TemplateBundle struct {
	HTML string
	Text string
}

// AdminLoginRequest carries the admin password exchanged for a bearer token.
type AdminLoginRequest struct {
	Password string `json:"password" validate:"required"`
}
