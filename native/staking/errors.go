package staking

import "errors"

var (
	ErrNilState              = errors.New("staking: state not configured")
	ErrNoStakingToken        = errors.New("staking: staking token not configured")
	ErrNoRewardToken         = errors.New("staking: reward token not configured")
	ErrNoConverter           = errors.New("staking: converter not configured")
	ErrNotOwner              = errors.New("staking: caller is not the owner")
	ErrPaused                = errors.New("staking: deposits are paused")
	ErrZeroAmount            = errors.New("staking: amount must be positive")
	ErrSlippage              = errors.New("staking: conversion output below minimum")
	ErrNothingToConvert      = errors.New("staking: nothing to convert")
	ErrTargetNotSet          = errors.New("staking: conversion target not configured")
	ErrTargetConfigured      = errors.New("staking: withdrawals disabled while conversion target is configured")
	ErrWithdrawalsNotStarted = errors.New("staking: withdrawals not yet open")
	ErrNothingToWithdraw     = errors.New("staking: nothing to withdraw")
	ErrVestingAccount        = errors.New("staking: vesting accounts cannot withdraw")
	ErrNotVestingUser        = errors.New("staking: not a vesting user")
	ErrVestingNotStarted     = errors.New("staking: not yet vesting")
	ErrNothingToClaim        = errors.New("staking: nothing to claim")
)
