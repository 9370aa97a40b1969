package storage

func rollbackOnError(rb interface{ Rollback() error }, err *error) {
	if *err == nil {
		return
	}
	_ = rb.Rollback()
}
