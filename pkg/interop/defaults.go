package interop

// RegisterDefaults wires the baseline syscall surface this debugger core
// understands: storage access, runtime notifications/witness checks, and
// blockchain header queries. Callers may Register additional names, or
// override these, before the first Reset.
func RegisterDefaults(r *Registry) {
	r.Register("Neo.Storage.Get", 0.1, storageGet)
	r.Register("Neo.Storage.Put", 1.0, storagePut)
	r.Register("Neo.Storage.Delete", 0.1, storageDelete)
	r.Register("Neo.Runtime.Notify", 0.01, runtimeNotify)
	r.Register("Neo.Runtime.Log", 0.01, runtimeLog)
	r.Register("Neo.Runtime.CheckWitness", 0.2, runtimeCheckWitness)
	r.Register("Neo.Blockchain.GetHeight", 0.01, blockchainGetHeight)
	r.Register("Neo.Blockchain.GetHeader", 0.1, blockchainGetHeader)
}
