package tui

import "github.com/mmcdole/grimoire/internal/domain"

// ChannelObserver adapts domain.CacheObserver to a channel for Bubble Tea.
type ChannelObserver struct {
	ch chan<- domain.CacheUpdate
}

var _ domain.CacheObserver = (*ChannelObserver)(nil)

// NewChannelObserver creates a new channel-based observer.
func NewChannelObserver(ch chan<- domain.CacheUpdate) *ChannelObserver {
	return &ChannelObserver{ch: ch}
}

// OnCacheUpdate sends the update to the channel (dropped if the channel is full).
func (o *ChannelObserver) OnCacheUpdate(update domain.CacheUpdate) {
	select {
	case o.ch <- update:
	default:
	}
}
