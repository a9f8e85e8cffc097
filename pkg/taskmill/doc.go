// Package taskmill hosts the embeddable surface of the task runner. It exposes
// plain task declarations plus a `Run` helper so other programs can execute a
// task graph without touching the CLI wiring. Orchestration logic stays in
// internal/taskrun.
package taskmill
