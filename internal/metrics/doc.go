// Package metrics records what a great-docs run did.
//
// Commands receive a Recorder. NoopRecorder is the default; when the user
// passes --metrics-file the CLI swaps in a PrometheusRecorder backed by a
// per-run registry and writes it out in the node_exporter textfile format
// once the command returns:
//
//	rec := metrics.NewPrometheusRecorder(nil)
//	rec.SetDiscovered(catalog.KindClass, 4)
//	...
//	err := rec.WriteTextfile("great-docs.prom")
package metrics
