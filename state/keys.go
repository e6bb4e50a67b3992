package state

import "lockstream/core/types"

var (
	stakeAccountPrefix = []byte("staking/account/")
	stakePoolKey       = []byte("staking/pool")
	claimRecordPrefix  = []byte("allocation/account/")
	allocationPoolKey  = []byte("allocation/pool")
)

func stakeAccountKey(addr types.Address) []byte {
	buf := make([]byte, len(stakeAccountPrefix)+len(addr))
	copy(buf, stakeAccountPrefix)
	copy(buf[len(stakeAccountPrefix):], addr[:])
	return buf
}

func claimRecordKey(addr types.Address) []byte {
	buf := make([]byte, len(claimRecordPrefix)+len(addr))
	copy(buf, claimRecordPrefix)
	copy(buf[len(claimRecordPrefix):], addr[:])
	return buf
}
