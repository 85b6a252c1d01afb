// Package iocache is for caching I/O calls and tracking built drift series.
package iocache

import (
	"sync"

	"github.com/data-drift/drift/internal/contract"
)

// CacheStoreManager manages the config cache and the history store.
type CacheStoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	config       contract.CacheStore
	history      contract.HistoryStore
}

var _ contract.CacheManager = &CacheStoreManager{} // Compile-time check

// GetConfigStore returns the config CacheStore.
func (mgr *CacheStoreManager) GetConfigStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.config
}

// GetHistoryStore returns the HistoryStore, or nil when tracking is disabled.
func (mgr *CacheStoreManager) GetHistoryStore() contract.HistoryStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.history
}
