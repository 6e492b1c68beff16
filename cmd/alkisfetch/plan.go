package main

// runPlan is fetch with dry-run forced on: it resolves targets and
// checks what already exists, but performs no network I/O and no writes.
func runPlan(args []string) int {
	return fetchCmd("plan", args, true)
}
