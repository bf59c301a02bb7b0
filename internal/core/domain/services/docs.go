// Package services provides domain services that orchestrate business operations
// across multiple domain entities in the dispatch system. It implements complex
// business workflows that don't naturally belong to a single aggregate root.
//
// The package includes:
//   - AvailabilityChecker: A domain service deciding whether a vehicle is free
//     for a requested time window given its existing bookings
//
// Domain services coordinate between aggregates, implementing business logic that
// spans multiple bounded contexts following Domain-Driven Design principles.
package services
