package chathub_test

import (
	"skillswap/backend/internal/models"
	"skillswap/backend/internal/storage/mockstorage"

	"github.com/stretchr/testify/mock"
)

var (
	userA = &models.User{ID: "user-a", Name: "Alice", Email: "a@example.com", PhotoURL: "/a.png"}
	userB = &models.User{ID: "user-b", Name: "Bob", Email: "b@example.com"}
	userC = &models.User{ID: "user-c", Name: "Carol", Email: "c@example.com"}
)

const (
	acceptedSwap = "swap-accepted"
	pendingSwap  = "swap-pending"
	rejectedSwap = "swap-rejected"
	missingSwap  = "swap-missing"
)

// seededStore knows users A, B, C and three swaps between A and B.
func seededStore() *mockstorage.MockStorage {
	store := new(mockstorage.MockStorage)
	for _, u := range []*models.User{userA, userB, userC} {
		store.On("FindUserByEmail", u.Email).Return(u, nil)
	}
	store.On("FindUserByEmail", "ghost@example.com").Return(nil, nil)

	store.On("FindSwapByID", acceptedSwap).Return(&models.Swap{ID: acceptedSwap, FromUserID: userA.ID, ToUserID: userB.ID, Status: models.SwapAccepted}, nil)
	store.On("FindSwapByID", pendingSwap).Return(&models.Swap{ID: pendingSwap, FromUserID: userA.ID, ToUserID: userB.ID, Status: models.SwapPending}, nil)
	store.On("FindSwapByID", rejectedSwap).Return(&models.Swap{ID: rejectedSwap, FromUserID: userA.ID, ToUserID: userB.ID, Status: models.SwapRejected}, nil)
	store.On("FindSwapByID", missingSwap).Return(nil, nil)
	return store
}

func expectAppend(store *mockstorage.MockStorage, err error) {
	store.On("AppendMessage", mock.AnythingOfType("*models.Message")).
		Run(func(args mock.Arguments) {
			args.Get(0).(*models.Message).ID = "msg-1"
		}).
		Return(err)
}
