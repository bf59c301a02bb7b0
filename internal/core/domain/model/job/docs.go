// Package job provides domain entities and business logic for work-order
// management in the dispatch system. It implements the Job aggregate root
// with lifecycle management and state transitions.
//
// The package includes:
//   - Job: The aggregate root that manages job identity, scheduling, and lifecycle
//   - Status: A state machine that enforces valid job status transitions
//   - Type, Priority: closed enumerations for job classification
//
// Key business rules:
//   - Jobs must have a valid identifier, job number, customer, date, and window
//   - The scheduling window is half-open [start, end): start < end always holds
//   - Status follows the workflow pending -> assigned -> in_progress -> completed
//   - Cancellation is possible from any non-terminal status; cancelled jobs can reopen
//   - Moving back to pending requires an explicit unassignment or reopen path
//   - completed is terminal
//
// The package follows Domain-Driven Design principles, providing rich domain
// behavior, encapsulation, and validation to ensure business rules are enforced.
package job
