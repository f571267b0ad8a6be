// Package service implements the application's use cases: the content
// lifecycle engine, the progress/badge evaluator, and the analytics
// aggregator. Services receive store interfaces by injection and own
// the transactions that span multiple writes.
package service
