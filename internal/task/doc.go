// Package task manages background generation work: queuing, worker-pool
// processing, and the per-kind work units that drive a generation task from
// its 0% checkpoint through the AI call and artifact write to a terminal
// state. Launching work here never blocks the HTTP request that created it;
// the persisted task row is the only handle a client needs.
package task
