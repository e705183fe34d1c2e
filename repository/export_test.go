package repository

func (r *MemoryUserRepository) count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

func (r *MemoryTokenRepository) invalidate(tokenHash string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tokens[tokenHash]
	if !ok {
		return false
	}
	t.Invalidated = true
	r.tokens[tokenHash] = t
	return true
}
