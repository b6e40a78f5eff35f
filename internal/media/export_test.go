package media

// Re-exports for black-box tests.

type CommandRunner = commandRunner

var (
	ParseDurationFromOutput = parseDurationFromOutput
	FormatTime              = formatTime
	WriteConcatList         = writeConcatList
)

const ConcatListName = concatListName

func (f Format) CodecArgs() []string { return f.codecArgs() }
