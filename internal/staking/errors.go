package staking

import "errors"

// Sentinel errors, one per violated precondition. Handlers map these onto
// HTTP status codes; callers discriminate with errors.Is.
var (
	ErrInvalidAddress   = errors.New("employer address required")
	ErrSalaryTooLow     = errors.New("salary floor below minimum")
	ErrInvalidAmount    = errors.New("stake amount below minimum")
	ErrTokenNotApproved = errors.New("token is not on the allow-list")
	ErrAlreadyStaked    = errors.New("employer has already staked")
	ErrEmptyPool        = errors.New("pool balance is zero")
)
