// Package param declares the gate's parameter set and the snapshot types the
// processor reads once per block.
//
// A [Store] holds one atomic word per parameter so control goroutines can
// write while the audio goroutine reads. [Store.Load] returns a [Values]
// snapshot by value. [MarshalState] and [UnmarshalState] persist a versioned
// JSON document of all parameters.
package param
