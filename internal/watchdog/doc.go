// Package watchdog provides a task watchdog.
//
// Each task that opts in calls [*Watchdog.Register] once and then
// [*Registration.Feed] at least once per timeout window.
// A kernel goroutine checks every registration on a fixed cadence;
// if any registration goes a full window without being fed,
// the watchdog invokes a termination by canceling the context returned
// from [New] with a [FailureToRespondError] cause.
// A wedged task is treated the same as a crashed one,
// so the termination applies to the whole system, not just that task.
package watchdog
