//go:build !unix

package safefile

// noFollow is unavailable; ReadFile falls back to an Lstat check.
const noFollow = 0

func isNoFollowError(error) bool { return false }
