// Package roles contains the three fixed tasks of the system.
//
// Each role exposes a Step method with the [task.Step] signature.
// The roles share a [queue.Bounded] and a [health.Flags] by reference:
//   - Producer writes integers to the queue and sets Flags.Generation
//   - Consumer drains the queue and sets or clears Flags.Reception
//   - Supervisor consumes both flags once per cycle and reports them
//
// The roles never talk to each other directly.
package roles
