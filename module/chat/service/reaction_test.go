package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	chatmodel "RTChat/module/chat/model"
)

func reaction(user, emoji string) chatmodel.Reaction {
	return chatmodel.Reaction{UserID: user, Emoji: emoji}
}

func TestAggregateReactionsEmpty(t *testing.T) {
	got := AggregateReactions(nil)
	require.NotNil(t, got, "must return empty slice, not nil")
	require.Len(t, got, 0)
}

func TestAggregateReactionsGroupsByEmoji(t *testing.T) {
	got := AggregateReactions([]chatmodel.Reaction{
		reaction("alice", "👍"),
		reaction("bob", "❤️"),
		reaction("carol", "👍"),
	})
	require.Len(t, got, 2)

	require.Equal(t, "👍", got[0].Emoji)
	require.Equal(t, 2, got[0].Count)
	require.Equal(t, []string{"alice", "carol"}, got[0].UserIDs)

	require.Equal(t, "❤️", got[1].Emoji)
	require.Equal(t, 1, got[1].Count)
}

func TestAggregateReactionsFirstSeenOrder(t *testing.T) {
	// 组序 = emoji 首见序，不是字典序也不是数量序
	got := AggregateReactions([]chatmodel.Reaction{
		reaction("a", "😂"),
		reaction("b", "👍"),
		reaction("c", "👍"),
		reaction("d", "😂"),
	})
	require.Len(t, got, 2)
	require.Equal(t, "😂", got[0].Emoji)
	require.Equal(t, "👍", got[1].Emoji)
}
