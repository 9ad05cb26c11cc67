// Package classifier implements the failure taxonomy and
// bisect-and-retry recovery policy: mapping a
// worker's exit condition or self-reported error to one of
// {oom, parse_error, rule_crash, unknown}, then deciding whether the
// owning batch is bisected and re-queued or its files are recorded as
// failed.
package classifier
