package segment

// Export internal functions for testing.
// This file is only compiled during tests (suffix _test.go).

// MergeAdjacent exports mergeAdjacent for testing.
var MergeAdjacent = mergeAdjacent

// ParseSecondsForTest exports parseSeconds for testing.
var ParseSecondsForTest = parseSeconds
