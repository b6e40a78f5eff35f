package ffmpeg

// Re-exports for black-box tests.

type EnvProvider = envProvider
