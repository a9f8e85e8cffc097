package buildfile

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/edelbluth/taskmill/internal/taskgraph"
)

const (
	// DefaultTaskFileName is the task file looked up in the working directory
	// when no explicit path is provided.
	DefaultTaskFileName = "taskmill.yaml"

	taskFileReadErrorTemplateConstant      = "unable to read task file %s: %v"
	taskFileParseErrorTemplateConstant     = "unable to parse task file: %v"
	taskFileEmptyErrorMessageConstant      = "task file declares no tasks"
	embeddedTaskFileSourceNameConstant     = "embedded default tasks"
	explicitTaskFileSourceTemplateConstant = "task file %s"
)

//go:embed default_tasks.yaml
var embeddedDefaultTaskFile []byte

// TaskFileError reports a task file that could not be read or decoded. It is
// distinct from task declaration errors, which surface as taskgraph errors.
type TaskFileError struct {
	Path  string
	Cause error
}

// Error implements the error interface.
func (errorDetails TaskFileError) Error() string {
	if len(errorDetails.Path) > 0 {
		return fmt.Sprintf(taskFileReadErrorTemplateConstant, errorDetails.Path, errorDetails.Cause)
	}
	return fmt.Sprintf(taskFileParseErrorTemplateConstant, errorDetails.Cause)
}

// Unwrap exposes the underlying error.
func (errorDetails TaskFileError) Unwrap() error {
	return errorDetails.Cause
}

type taskFileDocument struct {
	Tasks []taskFileEntry `yaml:"tasks"`
}

type taskFileEntry struct {
	Name     string   `yaml:"name"`
	Needs    []string `yaml:"needs"`
	Commands []string `yaml:"commands"`
}

// EmbeddedDefaultTaskFile returns the built-in task declarations shipped with
// the binary.
func EmbeddedDefaultTaskFile() []byte {
	content := make([]byte, len(embeddedDefaultTaskFile))
	copy(content, embeddedDefaultTaskFile)
	return content
}

// Parse decodes YAML task declarations into a validated task graph.
func Parse(content []byte) (*taskgraph.TaskGraph, error) {
	var document taskFileDocument
	if unmarshalError := yaml.Unmarshal(content, &document); unmarshalError != nil {
		return nil, TaskFileError{Cause: unmarshalError}
	}
	if len(document.Tasks) == 0 {
		return nil, TaskFileError{Cause: errors.New(taskFileEmptyErrorMessageConstant)}
	}

	declarations := make([]taskgraph.Task, 0, len(document.Tasks))
	for entryIndex := range document.Tasks {
		entry := document.Tasks[entryIndex]
		declarations = append(declarations, taskgraph.Task{
			Name:     entry.Name,
			Needs:    entry.Needs,
			Commands: entry.Commands,
		})
	}

	return taskgraph.NewTaskGraph(declarations)
}

// Load reads and parses the task file at the provided path.
func Load(taskFilePath string) (*taskgraph.TaskGraph, error) {
	content, readError := os.ReadFile(taskFilePath)
	if readError != nil {
		return nil, TaskFileError{Path: taskFilePath, Cause: readError}
	}
	return Parse(content)
}

// Resolve locates the effective task declarations: an explicit path when
// provided, the default task file in the working directory when present, and
// the embedded reference declarations otherwise. The returned description
// names the source for logging.
func Resolve(explicitTaskFilePath string) (*taskgraph.TaskGraph, string, error) {
	trimmedPath := strings.TrimSpace(explicitTaskFilePath)
	if len(trimmedPath) > 0 {
		graph, loadError := Load(trimmedPath)
		return graph, fmt.Sprintf(explicitTaskFileSourceTemplateConstant, trimmedPath), loadError
	}

	if _, statError := os.Stat(DefaultTaskFileName); statError == nil {
		graph, loadError := Load(DefaultTaskFileName)
		return graph, fmt.Sprintf(explicitTaskFileSourceTemplateConstant, DefaultTaskFileName), loadError
	}

	graph, parseError := Parse(embeddedDefaultTaskFile)
	return graph, embeddedTaskFileSourceNameConstant, parseError
}
