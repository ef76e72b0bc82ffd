// Package persistence saves packer counter state between runs.
//
// Rolling counters normally restart at 0 with every new Packer. Tools that
// pack a few frames per invocation store the last emitted counter of each
// message in a small JSON file and restore it on the next run.
package persistence
