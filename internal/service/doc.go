// Package service contains the task domain engine: task mutations with
// their notification triggers, the aggregation engine behind the
// reminders/insights/analytics views, and the reminder digest batch job.
// Services depend on stores and the notification transport through
// interfaces only.
package service
