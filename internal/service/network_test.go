package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/airqo/platform/api/internal/database"
	"github.com/airqo/platform/api/internal/model"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNetworkService() (*NetworkService, *mockNetworkRepo, *mockUserRepo) {
	users := newMockUserRepo()
	networks := newMockNetworkRepo(users)
	return NewNetworkService(NetworkServiceConfig{NetworkRepo: networks, UserRepo: users}), networks, users
}

func addUser(t *testing.T, users *mockUserRepo, email string) *model.User {
	t.Helper()
	u, err := users.Create(context.Background(), kcca, &model.RegisterUserRequest{
		FirstName: "Test", LastName: "User", UserName: email, Email: email,
	}, "hash")
	require.NoError(t, err)
	return u
}

func networkRequest(acronym string) *model.RegisterNetworkRequest {
	return &model.RegisterNetworkRequest{
		NetEmail:   acronym + "@airqo.net",
		NetName:    acronym + " network",
		NetAcronym: acronym,
	}
}

func TestNetworkService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("duplicate acronym is a conflict", func(t *testing.T) {
		svc, _, _ := newTestNetworkService()

		first := svc.Register(ctx, kcca, networkRequest("AQ"))
		require.True(t, first.Success, first.Errors)
		assert.Equal(t, http.StatusCreated, first.Status)
		assert.Equal(t, model.NetworkStatusInactive, first.Data.NetStatus)

		second := svc.Register(ctx, kcca, networkRequest("AQ"))
		assert.False(t, second.Success)
		assert.Equal(t, http.StatusConflict, second.Status)
		assert.Equal(t, model.Errors{"net_acronym": "the net_acronym must be unique"}, second.Errors)
	})

	t.Run("manager becomes a member", func(t *testing.T) {
		svc, networks, users := newTestNetworkService()
		manager := addUser(t, users, "boss@airqo.net")

		req := networkRequest("KCCA")
		req.NetManager = "boss"
		res := svc.Register(ctx, kcca, req)

		require.True(t, res.Success, res.Errors)
		assert.Equal(t, manager.ID, res.Data.NetManager)
		assert.Equal(t, []string{manager.ID}, res.Data.NetUsers)
		assert.Equal(t, []string{res.Data.ID}, manager.Networks)
		assert.Empty(t, networks.applied)
	})

	t.Run("unknown manager creates nothing", func(t *testing.T) {
		svc, networks, _ := newTestNetworkService()

		req := networkRequest("KCCA")
		req.NetManager = "ghost"
		res := svc.Register(ctx, kcca, req)

		assert.False(t, res.Success)
		assert.Equal(t, http.StatusNotFound, res.Status)
		assert.Equal(t, "user not found", res.Message)
		assert.Empty(t, networks.networks)

		retry := svc.Register(ctx, kcca, networkRequest("KCCA"))
		assert.Equal(t, http.StatusCreated, retry.Status)
	})

	t.Run("failed write leaves the acronym free", func(t *testing.T) {
		svc, networks, users := newTestNetworkService()
		manager := addUser(t, users, "boss@airqo.net")
		networks.createErr = database.ErrConnection

		req := networkRequest("KCCA")
		req.NetManager = "boss"
		res := svc.Register(ctx, kcca, req)
		assert.Equal(t, http.StatusBadGateway, res.Status)
		assert.Empty(t, networks.networks)
		assert.Empty(t, manager.Networks)

		networks.createErr = nil
		req = networkRequest("KCCA")
		req.NetManager = "boss"
		retry := svc.Register(ctx, kcca, req)
		require.True(t, retry.Success, retry.Errors)
		assert.Equal(t, http.StatusCreated, retry.Status)
		assert.Equal(t, []string{retry.Data.ID}, manager.Networks)
	})

	t.Run("invalid status", func(t *testing.T) {
		svc, _, _ := newTestNetworkService()
		req := networkRequest("AQ")
		req.NetStatus = "dormant"

		res := svc.Register(ctx, kcca, req)
		assert.Equal(t, http.StatusBadRequest, res.Status)
		assert.Contains(t, res.Errors, "net_status")
	})
}

func TestNetworkService_Modify(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*NetworkService, *mockNetworkRepo, *model.Network, []*model.User) {
		svc, networks, users := newTestNetworkService()
		members := []*model.User{
			addUser(t, users, "a@airqo.net"),
			addUser(t, users, "b@airqo.net"),
			addUser(t, users, "c@airqo.net"),
		}
		res := svc.Register(ctx, kcca, networkRequest("AQ"))
		require.True(t, res.Success)
		assign := svc.Modify(ctx, kcca, model.Filter{"id": res.Data.ID}, &model.UpdateNetworkRequest{
			Action:   model.ActionAssignUser,
			NetUsers: []string{"a", "b", "c"},
		})
		require.True(t, assign.Success, assign.Errors)
		return svc, networks, assign.Data, members
	}

	t.Run("assign adds members on both sides", func(t *testing.T) {
		_, _, network, members := setup(t)

		assert.Equal(t, []string{members[0].ID, members[1].ID, members[2].ID}, network.NetUsers)
		for _, m := range members {
			assert.Equal(t, []string{network.ID}, m.Networks)
		}
	})

	t.Run("net_users without action pulls every listed user", func(t *testing.T) {
		svc, networks, network, members := setup(t)

		res := svc.Modify(ctx, kcca, model.Filter{"id": network.ID}, &model.UpdateNetworkRequest{
			NetUsers: []string{members[0].ID, members[2].ID},
		})

		require.True(t, res.Success, res.Errors)
		assert.Equal(t, []string{members[1].ID}, res.Data.NetUsers)
		assert.Empty(t, members[0].Networks)
		assert.Equal(t, []string{network.ID}, members[1].Networks)
		assert.Empty(t, members[2].Networks)

		last := networks.applied[len(networks.applied)-1]
		want := model.Update{Arrays: []model.ArrayOp{{
			Field: "net_users", Kind: model.Pull, Values: []string{members[0].ID, members[2].ID},
		}}}
		if diff := cmp.Diff(want, last.Update); diff != "" {
			t.Errorf("network update mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("set-manager with plain fields", func(t *testing.T) {
		svc, networks, network, members := setup(t)
		name := "AirQo Uganda"
		manager := members[1].ID

		res := svc.Modify(ctx, kcca, model.Filter{"net_acronym": "AQ"}, &model.UpdateNetworkRequest{
			Action:     model.ActionSetManager,
			NetManager: &manager,
			NetName:    &name,
		})

		require.True(t, res.Success, res.Errors)
		assert.Equal(t, manager, res.Data.NetManager)
		assert.Equal(t, name, res.Data.NetName)

		last := networks.applied[len(networks.applied)-1]
		want := model.Update{
			Set:    map[string]interface{}{"net_manager": manager, "net_name": name},
			Arrays: []model.ArrayOp{{Field: "net_users", Kind: model.AddToSet, Values: []string{manager}}},
		}
		if diff := cmp.Diff(want, last.Update); diff != "" {
			t.Errorf("network update mismatch (-want +got):\n%s", diff)
		}
		assert.Equal(t, network.ID, last.Member.Values[0])
	})

	t.Run("unknown action", func(t *testing.T) {
		svc, _, network, _ := setup(t)

		res := svc.Modify(ctx, kcca, model.Filter{"id": network.ID}, &model.UpdateNetworkRequest{
			Action:   "promote-user",
			NetUsers: []string{"a"},
		})

		assert.Equal(t, http.StatusBadRequest, res.Status)
		assert.Contains(t, res.Errors, "action")
	})

	t.Run("plain update without membership", func(t *testing.T) {
		svc, networks, network, _ := setup(t)
		name := "Renamed"

		res := svc.Modify(ctx, kcca, model.Filter{"id": network.ID}, &model.UpdateNetworkRequest{NetName: &name})

		require.True(t, res.Success, res.Errors)
		assert.Equal(t, "Renamed", res.Data.NetName)
		assert.Len(t, networks.modified, 1)
	})

	t.Run("no match", func(t *testing.T) {
		svc, _, _, _ := setup(t)

		res := svc.Modify(ctx, kcca, model.Filter{"id": "network:missing"}, &model.UpdateNetworkRequest{
			Action:   model.ActionAssignUser,
			NetUsers: []string{"a"},
		})

		assert.Equal(t, http.StatusNotFound, res.Status)
		assert.Equal(t, "network not found", res.Message)
	})
}

func TestNetworkService_MemberRoutes(t *testing.T) {
	ctx := context.Background()
	svc, _, users := newTestNetworkService()
	alice := addUser(t, users, "alice@airqo.net")
	bob := addUser(t, users, "bob@airqo.net")
	network := svc.Register(ctx, kcca, networkRequest("AQ")).Data

	res := svc.AssignUser(ctx, kcca, network.ID, "bob")
	require.True(t, res.Success, res.Errors)
	res = svc.AssignUser(ctx, kcca, network.ID, alice.ID)
	require.True(t, res.Success, res.Errors)

	assigned := svc.AssignedUsers(ctx, kcca, network.ID)
	require.True(t, assigned.Success)
	require.Len(t, assigned.Data, 2)
	assert.Equal(t, bob.ID, assigned.Data[0].ID)
	assert.Equal(t, alice.ID, assigned.Data[1].ID)

	res = svc.SetManager(ctx, kcca, network.ID, alice.ID)
	require.True(t, res.Success, res.Errors)
	assert.Equal(t, alice.ID, res.Data.NetManager)

	res = svc.UnassignUser(ctx, kcca, network.ID, bob.ID)
	require.True(t, res.Success, res.Errors)
	assert.Equal(t, []string{alice.ID}, res.Data.NetUsers)
	assert.Empty(t, bob.Networks)

	res = svc.AssignUser(ctx, kcca, network.ID, "user:nobody")
	assert.Equal(t, http.StatusNotFound, res.Status)
	assert.Equal(t, "user not found", res.Message)

	res = svc.AssignUser(ctx, kcca, "network:nowhere", alice.ID)
	assert.Equal(t, http.StatusNotFound, res.Status)
	assert.Equal(t, "network not found", res.Message)
}

func TestNetworkService_ListAndRemove(t *testing.T) {
	ctx := context.Background()
	svc, _, users := newTestNetworkService()
	boss := addUser(t, users, "boss@airqo.net")
	req := networkRequest("AQ")
	req.NetManager = boss.ID
	require.True(t, svc.Register(ctx, kcca, req).Success)
	require.Len(t, boss.Networks, 1)

	list := svc.List(ctx, kcca, nil, model.ListOptions{})
	require.True(t, list.Success, list.Errors)
	require.Len(t, list.Data, 1)
	require.NotNil(t, list.Data[0].NetManager)
	assert.Equal(t, boss.Email, list.Data[0].NetManager.Email)
	require.Len(t, list.Data[0].NetUsers, 1)

	removedRes := svc.Remove(ctx, kcca, model.Filter{"net_acronym": "AQ"})
	require.True(t, removedRes.Success)
	assert.Equal(t, "AQ", removedRes.Data.NetAcronym)
	assert.Empty(t, boss.Networks)

	removedRes = svc.Remove(ctx, kcca, model.Filter{"net_acronym": "AQ"})
	assert.Equal(t, http.StatusNotFound, removedRes.Status)
}
