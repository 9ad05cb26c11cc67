// Package config layers the orchestrator's tunables the way the
// teacher does: cobra flags bound into viper and BATCHLINT_-prefixed
// environment variables, plus the three spec-mandated scenario
// variables bound without that prefix for containerized use
// (TEST_SCENARIO, TEST_TARGET_FILE, TEST_OOM_RETRIES). The optional
// batchlint.yaml is read by the root command's global viper instance,
// not by the per-command instances this package resolves Config from,
// so it does not affect these settings.
package config
