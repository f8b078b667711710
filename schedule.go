package sketch

// Scheduler defers a function to a later point in time, typically the next
// animation-frame boundary of the host application. The engine never calls
// it concurrently; all work runs on one logical thread.
type Scheduler func(run func())

// Coalescer collapses bursts of requests into at most one pending job: the
// job passed to the most recent [Coalescer.Do] before the scheduler fires is
// the one that runs, earlier pending jobs are superseded, never stacked.
//
// A nil scheduler runs every job synchronously, which is what tests use.
type Coalescer struct {
	schedule Scheduler
	job      func()
	pending  bool
}

func NewCoalescer(schedule Scheduler) *Coalescer {
	return &Coalescer{schedule: schedule}
}

// Do requests job to run at the next scheduling boundary, replacing any job
// that is still pending.
func (c *Coalescer) Do(job func()) {
	if c.schedule == nil {
		job()
		return
	}
	c.job = job
	if c.pending {
		return
	}
	c.pending = true
	c.schedule(c.run)
}

// Flush runs the pending job immediately, if any. The already-scheduled
// callback becomes a no-op.
func (c *Coalescer) Flush() {
	if c.pending {
		c.run()
	}
}

// Pending reports whether a job is waiting to run.
func (c *Coalescer) Pending() bool {
	return c.pending
}

func (c *Coalescer) run() {
	job := c.job
	c.job = nil
	c.pending = false
	if job != nil {
		job()
	}
}
