// Package launch implements the security-critical half of the launch
// engine: classifying command strings against a whitelist policy and
// spawning the resulting argument vectors as supervised, detached child
// processes.
//
// # Validation
//
// The Policy rejects shell metacharacters and quote characters outright,
// blocks destructive binaries by leading token, and decomposes the command
// into a discrete argument vector according to its execution kind. No code
// path ever hands a string to a shell interpreter, which is what makes the
// blanket metacharacter ban sufficient: with quoting syntax gone, token
// boundaries are exactly whitespace and injection via argument gluing is
// impossible.
//
// # Execution
//
// The Executor runs each launch in its own process group with stdin closed
// and diagnostic output captured up to a fixed bound. A grace check shortly
// after spawn converts instant nonzero exits into spawn failures instead of
// false successes; supervised launches are killed when they exceed their
// wall-clock deadline. Every outcome, including every failure, is encoded
// in a Result. Launch failures are surfaced to the caller and never retried
// automatically.
package launch
