package domain

import "errors"

var (
	// ErrInternalServerError will throw if any the Internal Server Error happen
	ErrInternalServerError = errors.New("Internal Server Error")
	// ErrNotFound will throw if the requested item is not exists
	ErrNotFound = errors.New("Your requested Item is not found")
	// ErrBadParamInput will throw if the given request-body or params is not valid
	ErrBadParamInput       = errors.New("Given Param is not valid")
	ErrInvalidNumberFormat = errors.New("invalid number format")
	ErrInvalidTokenId      = errors.New("invalid token id")
	ErrInvalidCurrency     = errors.New("invalid currency")

	// request error
	ErrInvalidAddress   = errors.New("Invalid address")
	ErrInvalidSignature = errors.New("Invalid signature")

	// listing lifecycle
	ErrNotOwner         = errors.New("caller does not own the asset")
	ErrNotApproved      = errors.New("marketplace is not approved to move the asset")
	ErrAlreadyListed    = errors.New("asset is already listed")
	ErrNoSuchListing    = errors.New("no such listing")
	ErrDurationTooShort = errors.New("duration is too short")
	ErrPriceOverflow    = errors.New("price exceeds 128 bits")
	ErrDurationOverflow = errors.New("duration exceeds 64 bits")
	ErrNotSeller        = errors.New("caller is not the seller")

	// bidding
	ErrNotAuction = errors.New("listing is not an auction")
	ErrNotLive    = errors.New("listing is not live")
	ErrStillLive  = errors.New("auction is still live")
	ErrBidTooLow  = errors.New("bid is not higher than the highest price")

	// settlement
	ErrNotWinner    = errors.New("caller is not the highest bidder")
	ErrPriceTooLow  = errors.New("offered price is lower than the listing price")
	ErrPayoutFailed = errors.New("asset delivered but payout from escrow failed")

	// custody
	ErrTransferRejected      = errors.New("asset transfer rejected")
	ErrInsufficientBalance   = errors.New("insufficient balance")
	ErrInsufficientAllowance = errors.New("insufficient allowance")

	// administrative gate
	ErrNotAuthorizedCaller = errors.New("caller is not authorized")
	ErrPaused              = errors.New("marketplace is paused")
)
