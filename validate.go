package endpoint

// SelfValidator is implemented by request types that validate themselves.
// It runs after all declared categories have been bound and checked.
type SelfValidator interface {
	Validate() error
}

// Validator validates any request. Set one router-wide with WithValidator.
type Validator interface {
	Validate(req any) error
}
