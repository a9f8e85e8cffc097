package taskgraph

import (
	"fmt"
	"strings"
)

const (
	unknownTaskErrorMessageTemplateConstant           = "task %q is not declared"
	unknownTaskReferenceErrorMessageTemplateConstant  = "task %q is not declared (required by %q)"
	cyclicDependencyErrorMessageTemplateConstant      = "task dependencies contain a cycle: %s"
	duplicateTaskErrorMessageTemplateConstant         = "task %q is declared multiple times"
	selfDependencyErrorMessageTemplateConstant        = "task %q cannot depend on itself"
	cyclicDependencyPathSeparatorConstant             = " -> "
	missingTaskNameErrorMessageConstant               = "task declaration missing name"
	emptyCommandLineErrorMessageTemplateConstant      = "task %q declares an empty command line"
	nilTaskGraphErrorMessageConstant                  = "task graph not provided"
	blankRequestedTaskNameErrorMessageConstant        = "requested task name is blank"
	blankPrerequisiteNameErrorMessageTemplateConstant = "task %q declares a blank prerequisite name"
)

// UnknownTaskError reports a requested or referenced task name that is not declared.
type UnknownTaskError struct {
	TaskName     string
	ReferencedBy string
}

// Error implements the error interface.
func (errorDetails UnknownTaskError) Error() string {
	if len(errorDetails.ReferencedBy) > 0 {
		return fmt.Sprintf(unknownTaskReferenceErrorMessageTemplateConstant, errorDetails.TaskName, errorDetails.ReferencedBy)
	}
	return fmt.Sprintf(unknownTaskErrorMessageTemplateConstant, errorDetails.TaskName)
}

// CyclicDependencyError reports a prerequisite cycle reachable from the requested task.
type CyclicDependencyError struct {
	CyclePath []string
}

// Error implements the error interface.
func (errorDetails CyclicDependencyError) Error() string {
	return fmt.Sprintf(cyclicDependencyErrorMessageTemplateConstant, strings.Join(errorDetails.CyclePath, cyclicDependencyPathSeparatorConstant))
}

// DuplicateTaskError reports a task name declared more than once.
type DuplicateTaskError struct {
	TaskName string
}

// Error implements the error interface.
func (errorDetails DuplicateTaskError) Error() string {
	return fmt.Sprintf(duplicateTaskErrorMessageTemplateConstant, errorDetails.TaskName)
}

// SelfDependencyError reports a task listing itself as a prerequisite.
type SelfDependencyError struct {
	TaskName string
}

// Error implements the error interface.
func (errorDetails SelfDependencyError) Error() string {
	return fmt.Sprintf(selfDependencyErrorMessageTemplateConstant, errorDetails.TaskName)
}

// EmptyCommandLineError reports a task declaring a blank command line.
type EmptyCommandLineError struct {
	TaskName string
}

// Error implements the error interface.
func (errorDetails EmptyCommandLineError) Error() string {
	return fmt.Sprintf(emptyCommandLineErrorMessageTemplateConstant, errorDetails.TaskName)
}
