package taskgraph

import (
	"errors"
	"fmt"
	"strings"
)

// Task describes a single named build task. Tasks are always phony: a task is
// a label for its command lines, never a filesystem artifact to freshness-check.
type Task struct {
	Name     string
	Needs    []string
	Commands []string
}

// TaskGraph stores immutable task declarations indexed by name while
// preserving declaration order.
type TaskGraph struct {
	tasksByName      map[string]Task
	declarationOrder []string
}

// NewTaskGraph validates the supplied declarations and assembles an immutable graph.
func NewTaskGraph(declarations []Task) (*TaskGraph, error) {
	tasksByName := make(map[string]Task, len(declarations))
	declarationOrder := make([]string, 0, len(declarations))

	for declarationIndex := range declarations {
		declaration := declarations[declarationIndex]

		taskName := strings.TrimSpace(declaration.Name)
		if len(taskName) == 0 {
			return nil, errors.New(missingTaskNameErrorMessageConstant)
		}
		if _, alreadyDeclared := tasksByName[taskName]; alreadyDeclared {
			return nil, DuplicateTaskError{TaskName: taskName}
		}

		sanitizedNeeds := make([]string, 0, len(declaration.Needs))
		for needIndex := range declaration.Needs {
			needName := strings.TrimSpace(declaration.Needs[needIndex])
			if len(needName) == 0 {
				return nil, fmt.Errorf(blankPrerequisiteNameErrorMessageTemplateConstant, taskName)
			}
			if needName == taskName {
				return nil, SelfDependencyError{TaskName: taskName}
			}
			sanitizedNeeds = append(sanitizedNeeds, needName)
		}

		sanitizedCommands := make([]string, 0, len(declaration.Commands))
		for commandIndex := range declaration.Commands {
			commandLine := strings.TrimSpace(declaration.Commands[commandIndex])
			if len(commandLine) == 0 {
				return nil, EmptyCommandLineError{TaskName: taskName}
			}
			sanitizedCommands = append(sanitizedCommands, commandLine)
		}

		tasksByName[taskName] = Task{Name: taskName, Needs: sanitizedNeeds, Commands: sanitizedCommands}
		declarationOrder = append(declarationOrder, taskName)
	}

	return &TaskGraph{tasksByName: tasksByName, declarationOrder: declarationOrder}, nil
}

// Lookup returns the declared task for the provided name.
func (graph *TaskGraph) Lookup(taskName string) (Task, bool) {
	task, exists := graph.tasksByName[taskName]
	return task, exists
}

// TaskNames returns all declared task names in declaration order.
func (graph *TaskGraph) TaskNames() []string {
	names := make([]string, len(graph.declarationOrder))
	copy(names, graph.declarationOrder)
	return names
}

// Size reports the number of declared tasks.
func (graph *TaskGraph) Size() int {
	return len(graph.declarationOrder)
}
