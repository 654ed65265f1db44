package services

import "errors"

var (
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrWalletNotFound     = errors.New("wallet not found")
	ErrContentNotFound    = errors.New("content not found")
	ErrContentNotPending  = errors.New("content already approved or rejected")
	ErrContentExists      = errors.New("content already submitted for this campaign")
	ErrCampaignNotFound   = errors.New("campaign not found")
	ErrCampaignNotPending = errors.New("campaign is not awaiting review")
	ErrCampaignNotActive  = errors.New("campaign is not active")
	ErrInvalidCampaign    = errors.New("invalid campaign")
	ErrSlugTaken          = errors.New("campaign slug already taken")
	ErrApplicationExists  = errors.New("already applied to this campaign")
	ErrApplicationInvalid = errors.New("application does not match campaign or influencer")
	ErrProfileNotFound    = errors.New("profile not found")
	ErrProfileIncomplete  = errors.New("profile incomplete")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserNotPending     = errors.New("user already reviewed")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidRole        = errors.New("invalid role")
	ErrMissingProfile     = errors.New("missing profile fields")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotApproved        = errors.New("account not approved")
	ErrRoleMismatch       = errors.New("role mismatch")
)
