package allocation

import "errors"

var (
	ErrNilState         = errors.New("allocation: state not configured")
	ErrNoToken          = errors.New("allocation: distribution token not configured")
	ErrNotOwner         = errors.New("allocation: caller is not the owner")
	ErrNotInitialized   = errors.New("allocation: pool not initialized")
	ErrAlreadyInit      = errors.New("allocation: pool already initialized")
	ErrWindowTooShort   = errors.New("allocation: claim window below minimum")
	ErrRootNotSet       = errors.New("allocation: merkle root not set")
	ErrRootAlreadySet   = errors.New("allocation: merkle root already set")
	ErrClaimsNotStarted = errors.New("allocation: claims not yet open")
	ErrZeroEntitlement  = errors.New("allocation: entitled amount must be positive")
	ErrAlreadyClaimed   = errors.New("allocation: already claimed")
	ErrInvalidProof     = errors.New("allocation: invalid proof")
	ErrLockerNotSet     = errors.New("allocation: locker not configured")
	ErrNotExpired       = errors.New("allocation: grace period still running")
	ErrRescueClosed     = errors.New("allocation: rescue window closed")
	ErrPoolEmpty        = errors.New("allocation: pool is empty")
)
