// Command greenlight is the CLI for the greenlight content pipeline daemon.
// It talks to the daemon's HTTP API to enqueue topics, review and advance
// content items, inspect audit history, and read pipeline metrics.
package main
