package constants

const (
	// Well-known locations inside the packaged app's sandbox, addressed
	// through UnrealAndroidFileTool's ^ aliases.
	RemoteCommandFile = "^commandfile"
	RemoteTraceDir    = "^saved/Traces"

	// CommandFileName is the local artifact generated before each push.
	CommandFileName = "UECommandLine.txt"

	// DefaultPort is the Android File Server receiver port.
	DefaultPort = "57099"
)

// DefaultTraceArgs seeds the command file when the operator supplies no
// trace arguments of their own. The {{host}} placeholder is the machine
// Unreal Insights listens on. For Memory Insights include
// -trace=default,memory (Development build required).
const DefaultTraceArgs = "-tracehost={{host}} -trace=Bookmark,Frame,CPU,GPU,LoadTime,File " +
	"-cpuprofilertrace -statnamedevents -filetrace -loadtimetrace"
