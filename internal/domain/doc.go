// Package domain contains the core business entities of the application:
// tasks, users, and the calendar dates their reminders are computed from.
// Entities validate themselves; persistence and transport concerns live in
// the store and api packages.
package domain
