package rule

// CompileCount returns how many times the rule's pattern was compiled.
func (r *Rule) CompileCount() int64 {
	return r.compiles.Load()
}
