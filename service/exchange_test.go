package service

import (
	"Lotus/models"
	"Lotus/types"
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRule(t *testing.T, env *testEnv, from, to *models.Item, fromQty, toQty int64) *types.ExchangeRuleInfo {
	t.Helper()
	rule, err := env.exchange.Create(context.Background(), &types.CreateExchangeRuleReq{
		FromItemID:   from.ID,
		ToItemID:     to.ID,
		FromQuantity: fromQty,
		ToQuantity:   toQty,
	})
	require.NoError(t, err)
	return rule
}

func ptr[T any](v T) *T { return &v }

func TestExchange_Perform(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	lotus := env.item(t, "莲子", false)
	tea := env.item(t, "莲心茶", true)
	rule := newRule(t, env, lotus, tea, 10, 1)
	env.give(t, "u1", lotus.ID, 10)

	res, err := env.exchange.Perform(ctx, "u1", rule.ID, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 0, res.FromItemBalance)
	assert.EqualValues(t, 1, res.ToItemBalance)
	assert.EqualValues(t, 10, res.Spent)
	assert.EqualValues(t, 1, res.Gained)
	assert.NotZero(t, res.RecordID)

	assert.EqualValues(t, 0, env.qty(t, "u1", lotus.ID))
	assert.EqualValues(t, 1, env.qty(t, "u1", tea.ID))
	assert.Contains(t, env.events.types(), EventExchange)

	// 余额为 0 的行不出现在背包里
	items, err := env.balance.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, tea.ID, items[0].ItemID)
}

func TestExchange_InsufficientLeavesNoTrace(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	lotus := env.item(t, "莲子", false)
	tea := env.item(t, "莲心茶", true)
	rule := newRule(t, env, lotus, tea, 10, 1)
	env.give(t, "u1", lotus.ID, 5)

	_, err := env.exchange.Perform(ctx, "u1", rule.ID, 1)
	var insufficient *InsufficientBalanceError
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, "莲子", insufficient.ItemName)
	assert.EqualValues(t, 10, insufficient.Need)
	assert.EqualValues(t, 5, insufficient.Have)
	assert.EqualValues(t, 5, insufficient.Shortfall())

	assert.EqualValues(t, 5, env.qty(t, "u1", lotus.ID))
	assert.EqualValues(t, -1, env.qty(t, "u1", tea.ID))
	assert.EqualValues(t, 0, env.count(t, &models.ExchangeRecord{}, "user_id = ?", "u1"))
}

func TestExchange_ConservationAcrossRepetitions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	lotus := env.item(t, "莲子", false)
	tea := env.item(t, "莲心茶", true)
	rule := newRule(t, env, lotus, tea, 4, 3)
	env.give(t, "u1", lotus.ID, 20)
	env.give(t, "u1", tea.ID, 2)

	res, err := env.exchange.Perform(ctx, "u1", rule.ID, 3)
	require.NoError(t, err)
	assert.EqualValues(t, 20-4*3, res.FromItemBalance)
	assert.EqualValues(t, 2+3*3, res.ToItemBalance)

	page, err := env.exchange.Records(ctx, "u1", 0, 0)
	require.NoError(t, err)
	require.EqualValues(t, 1, page.Total)
	rec := page.Records[0]
	assert.Equal(t, rule.ID, rec.RuleID)
	assert.EqualValues(t, 3, rec.Repetitions)
	assert.EqualValues(t, 12, rec.FromQuantity)
	assert.EqualValues(t, 9, rec.ToQuantity)
	assert.Equal(t, res.RecordID, rec.ID)
}

func TestExchange_PerformRejections(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	lotus := env.item(t, "莲子", false)
	tea := env.item(t, "莲心茶", true)
	rule := newRule(t, env, lotus, tea, 10, 1)
	env.give(t, "u1", lotus.ID, 100)

	_, err := env.exchange.Perform(ctx, "u1", 9999, 1)
	assert.ErrorIs(t, err, ErrRuleNotFound)

	_, err = env.exchange.Perform(ctx, "u1", rule.ID, 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = env.exchange.Perform(ctx, "u1", rule.ID, math.MaxInt64)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = env.exchange.Update(ctx, rule.ID, &types.UpdateExchangeRuleReq{IsActive: ptr(false)})
	require.NoError(t, err)
	_, err = env.exchange.Perform(ctx, "u1", rule.ID, 1)
	assert.ErrorIs(t, err, ErrRuleInactive)

	assert.EqualValues(t, 100, env.qty(t, "u1", lotus.ID))
	assert.EqualValues(t, 0, env.count(t, &models.ExchangeRecord{}, "user_id = ?", "u1"))
}

func TestExchange_LegacySameItemRule(t *testing.T) {
	env := newTestEnv(t)
	lotus := env.item(t, "莲子", false)
	legacy := &models.ExchangeRule{FromItemID: lotus.ID, ToItemID: lotus.ID, FromQuantity: 5, ToQuantity: 3, IsActive: true}
	require.NoError(t, env.db.Create(legacy).Error)

	env.give(t, "u1", lotus.ID, 5)
	res, err := env.exchange.Perform(context.Background(), "u1", legacy.ID, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 3, res.FromItemBalance)
	assert.EqualValues(t, 3, res.ToItemBalance)
	assert.EqualValues(t, 3, env.qty(t, "u1", lotus.ID))

	// 先扣后加：余额不够扣时不能靠本次的奖励补足
	env2 := newTestEnv(t)
	lotus2 := env2.item(t, "莲子", false)
	legacy2 := &models.ExchangeRule{FromItemID: lotus2.ID, ToItemID: lotus2.ID, FromQuantity: 5, ToQuantity: 8, IsActive: true}
	require.NoError(t, env2.db.Create(legacy2).Error)
	env2.give(t, "u1", lotus2.ID, 4)
	_, err = env2.exchange.Perform(context.Background(), "u1", legacy2.ID, 1)
	var insufficient *InsufficientBalanceError
	assert.True(t, errors.As(err, &insufficient))
	assert.EqualValues(t, 4, env2.qty(t, "u1", lotus2.ID))
}

func TestExchange_CreateValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	lotus := env.item(t, "莲子", false)
	tea := env.item(t, "莲心茶", true)

	tests := []struct {
		name string
		req  types.CreateExchangeRuleReq
		want error
	}{
		{"zero from quantity", types.CreateExchangeRuleReq{FromItemID: lotus.ID, ToItemID: tea.ID, FromQuantity: 0, ToQuantity: 1}, ErrInvalidQuantity},
		{"negative to quantity", types.CreateExchangeRuleReq{FromItemID: lotus.ID, ToItemID: tea.ID, FromQuantity: 1, ToQuantity: -1}, ErrInvalidQuantity},
		{"same item", types.CreateExchangeRuleReq{FromItemID: lotus.ID, ToItemID: lotus.ID, FromQuantity: 1, ToQuantity: 1}, ErrRuleSameItem},
		{"missing item", types.CreateExchangeRuleReq{FromItemID: lotus.ID, ToItemID: 9999, FromQuantity: 1, ToQuantity: 1}, ErrItemNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.exchange.Create(ctx, &tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	created := newRule(t, env, lotus, tea, 10, 1)
	assert.Equal(t, "莲子", created.FromItemName)
	assert.Equal(t, "莲心茶", created.ToItemName)
	assert.True(t, created.IsActive)

	_, err := env.exchange.Create(ctx, &types.CreateExchangeRuleReq{FromItemID: lotus.ID, ToItemID: tea.ID, FromQuantity: 5, ToQuantity: 1})
	assert.ErrorIs(t, err, ErrRuleDuplicate)

	// 反方向不算重复
	reverse := newRule(t, env, tea, lotus, 1, 8)
	assert.NotEqual(t, created.ID, reverse.ID)
}

func TestExchange_UpdateAndDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	lotus := env.item(t, "莲子", false)
	tea := env.item(t, "莲心茶", true)
	cake := env.item(t, "莲蓉酥", true)
	first := newRule(t, env, lotus, tea, 10, 1)
	second := newRule(t, env, lotus, cake, 20, 1)

	updated, err := env.exchange.Update(ctx, first.ID, &types.UpdateExchangeRuleReq{FromQuantity: ptr[int64](8)})
	require.NoError(t, err)
	assert.EqualValues(t, 8, updated.FromQuantity)
	assert.EqualValues(t, 1, updated.ToQuantity)
	assert.Equal(t, tea.ID, updated.ToItemID)

	_, err = env.exchange.Update(ctx, second.ID, &types.UpdateExchangeRuleReq{ToItemID: ptr(tea.ID)})
	assert.ErrorIs(t, err, ErrRuleDuplicate)

	_, err = env.exchange.Update(ctx, second.ID, &types.UpdateExchangeRuleReq{ToQuantity: ptr[int64](0)})
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = env.exchange.Update(ctx, 9999, &types.UpdateExchangeRuleReq{IsActive: ptr(true)})
	assert.ErrorIs(t, err, ErrRuleNotFound)

	got, err := env.exchange.GetByID(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, cake.ID, got.ToItemID)
	assert.EqualValues(t, 20, got.FromQuantity)

	require.NoError(t, env.exchange.Delete(ctx, second.ID))
	assert.ErrorIs(t, env.exchange.Delete(ctx, second.ID), ErrRuleNotFound)
	_, err = env.exchange.GetByID(ctx, second.ID)
	assert.ErrorIs(t, err, ErrRuleNotFound)
}

func TestExchange_UpdateLegacySameItemRule(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	lotus := env.item(t, "莲子", false)
	tea := env.item(t, "莲心茶", true)
	legacy := &models.ExchangeRule{FromItemID: lotus.ID, ToItemID: lotus.ID, FromQuantity: 5, ToQuantity: 3, IsActive: true}
	require.NoError(t, env.db.Create(legacy).Error)

	// 物品不变时可以停用或调整数量
	updated, err := env.exchange.Update(ctx, legacy.ID, &types.UpdateExchangeRuleReq{IsActive: ptr(false)})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	updated, err = env.exchange.Update(ctx, legacy.ID, &types.UpdateExchangeRuleReq{ToQuantity: ptr[int64](2)})
	require.NoError(t, err)
	assert.EqualValues(t, 2, updated.ToQuantity)
	assert.False(t, updated.IsActive)

	env.give(t, "u1", lotus.ID, 5)
	_, err = env.exchange.Perform(ctx, "u1", legacy.ID, 1)
	assert.ErrorIs(t, err, ErrRuleInactive)
	assert.EqualValues(t, 5, env.qty(t, "u1", lotus.ID))

	// 改动物品后仍然要求前后不同
	normal := newRule(t, env, lotus, tea, 10, 1)
	_, err = env.exchange.Update(ctx, normal.ID, &types.UpdateExchangeRuleReq{ToItemID: ptr(lotus.ID)})
	assert.ErrorIs(t, err, ErrRuleSameItem)
	_, err = env.exchange.Update(ctx, normal.ID, &types.UpdateExchangeRuleReq{FromItemID: ptr(tea.ID), ToItemID: ptr(tea.ID)})
	assert.ErrorIs(t, err, ErrRuleSameItem)
}

func TestExchange_ListActiveAndAll(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	lotus := env.item(t, "莲子", false)
	tea := env.item(t, "莲心茶", true)
	cake := env.item(t, "莲蓉酥", true)
	newRule(t, env, lotus, tea, 10, 1)
	_, err := env.exchange.Create(ctx, &types.CreateExchangeRuleReq{
		FromItemID: lotus.ID, ToItemID: cake.ID, FromQuantity: 20, ToQuantity: 1, IsActive: ptr(false),
	})
	require.NoError(t, err)

	active, err := env.exchange.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, tea.ID, active[0].ToItemID)

	all, err := env.exchange.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestExchange_RecordsPagination(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	lotus := env.item(t, "莲子", false)
	tea := env.item(t, "莲心茶", true)
	rule := newRule(t, env, lotus, tea, 1, 1)
	env.give(t, "u1", lotus.ID, 10)

	var ids []int64
	for i := 0; i < 3; i++ {
		res, err := env.exchange.Perform(ctx, "u1", rule.ID, 1)
		require.NoError(t, err)
		ids = append(ids, res.RecordID)
	}

	page, err := env.exchange.Records(ctx, "u1", 2, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.Total)
	require.Len(t, page.Records, 2)
	assert.Equal(t, ids[2], page.Records[0].ID)
	assert.Equal(t, ids[1], page.Records[1].ID)

	other, err := env.exchange.Records(ctx, "u2", 10, 0)
	require.NoError(t, err)
	assert.Zero(t, other.Total)
	assert.Empty(t, other.Records)
}
