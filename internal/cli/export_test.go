package cli

// Re-exports for black-box tests.

var ClampParallel = clampParallel
