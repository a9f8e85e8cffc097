package taskgraph

import "errors"

type taskVisitState int

const (
	taskVisitStateNotStarted taskVisitState = iota
	taskVisitStateInProgress
	taskVisitStateComplete
)

type traversalFrame struct {
	taskName      string
	nextNeedIndex int
}

// Plan resolves the execution order for the requested task using a depth-first
// traversal of the prerequisite relation. Prerequisites are visited
// left-to-right in declaration order and every reachable task appears exactly
// once, before any task that depends on it. The traversal runs over an
// explicit frame stack so arbitrarily deep graphs never exhaust the call stack.
func Plan(graph *TaskGraph, requestedTaskName string) ([]Task, error) {
	if graph == nil {
		return nil, errors.New(nilTaskGraphErrorMessageConstant)
	}
	if len(requestedTaskName) == 0 {
		return nil, errors.New(blankRequestedTaskNameErrorMessageConstant)
	}
	if _, requestedTaskExists := graph.Lookup(requestedTaskName); !requestedTaskExists {
		return nil, UnknownTaskError{TaskName: requestedTaskName}
	}

	visitStates := make(map[string]taskVisitState, graph.Size())
	frameStack := make([]traversalFrame, 0, graph.Size())
	orderedTasks := make([]Task, 0, graph.Size())

	visitStates[requestedTaskName] = taskVisitStateInProgress
	frameStack = append(frameStack, traversalFrame{taskName: requestedTaskName})

	for len(frameStack) > 0 {
		frameIndex := len(frameStack) - 1
		currentTask, _ := graph.Lookup(frameStack[frameIndex].taskName)

		if frameStack[frameIndex].nextNeedIndex >= len(currentTask.Needs) {
			visitStates[currentTask.Name] = taskVisitStateComplete
			orderedTasks = append(orderedTasks, currentTask)
			frameStack = frameStack[:frameIndex]
			continue
		}

		needName := currentTask.Needs[frameStack[frameIndex].nextNeedIndex]
		frameStack[frameIndex].nextNeedIndex++

		if _, needExists := graph.Lookup(needName); !needExists {
			return nil, UnknownTaskError{TaskName: needName, ReferencedBy: currentTask.Name}
		}

		switch visitStates[needName] {
		case taskVisitStateComplete:
		case taskVisitStateInProgress:
			return nil, CyclicDependencyError{CyclePath: cyclePathFromStack(frameStack, needName)}
		default:
			visitStates[needName] = taskVisitStateInProgress
			frameStack = append(frameStack, traversalFrame{taskName: needName})
		}
	}

	return orderedTasks, nil
}

// cyclePathFromStack reconstructs the dependency cycle by walking the traversal
// stack from the first occurrence of the revisited task back to itself.
func cyclePathFromStack(frameStack []traversalFrame, revisitedTaskName string) []string {
	cycleStartIndex := 0
	for frameIndex := range frameStack {
		if frameStack[frameIndex].taskName == revisitedTaskName {
			cycleStartIndex = frameIndex
			break
		}
	}

	cyclePath := make([]string, 0, len(frameStack)-cycleStartIndex+1)
	for frameIndex := cycleStartIndex; frameIndex < len(frameStack); frameIndex++ {
		cyclePath = append(cyclePath, frameStack[frameIndex].taskName)
	}
	cyclePath = append(cyclePath, revisitedTaskName)
	return cyclePath
}
