// Package queue implements the matchmaking queue.
//
// Waiting players are held in an entry map (authoritative) and indexed into
// rating buckets for proximity search. Enqueueing a player immediately
// searches the player's own bucket and its two neighbors for the oldest
// compatible candidate; the first candidate within one bucket width wins.
// The search is deliberately not exhaustive: first-FIFO-eligible bounds the
// cost and favors wait-time fairness over rating optimality.
//
// All queue state is guarded by a single mutex. Enqueue (insert plus match
// search plus removal of a matched pair) and dequeue each run as one
// critical section, so a concurrent cancel and match for the same player
// serialize deterministically.
package queue
