package services_test

import (
	"testing"

	"feedinneed_backend/internal/models"
	"feedinneed_backend/internal/services/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitRating_BothDirections(t *testing.T) {
	env := setupEnv(t)
	donor := createUser(t, env.db, models.UserRoleDonor, true, true)
	receiver := createUser(t, env.db, models.UserRoleReceiver, true, false)
	admin := createUser(t, env.db, models.UserRoleAdmin, true, false)

	_, request := createApprovedRequest(t, env, donor, receiver, admin)
	completeRequest(t, env, receiver, request)

	donorRating, err := env.ratings.Submit(donor.ID, &dto.SubmitRatingRequest{
		RequestID: request.ID,
		Rating:    5,
		Feedback:  "Picked up on time, very polite.",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RatingTypeDonorToReceiver, donorRating.RatingType)
	assert.Equal(t, receiver.ID, donorRating.RatedUserID)

	receiverRating, err := env.ratings.Submit(receiver.ID, &dto.SubmitRatingRequest{
		RequestID: request.ID,
		Rating:    4,
		Feedback:  "Food was fresh and well packed.",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RatingTypeReceiverToDonor, receiverRating.RatingType)
	assert.Equal(t, donor.ID, receiverRating.RatedUserID)

	var fresh models.Request
	require.NoError(t, env.db.First(&fresh, "id = ?", request.ID).Error)
	assert.True(t, fresh.DonorRated)
	assert.True(t, fresh.ReceiverRated)

	// Aggregates landed on the profiles.
	var ratedReceiver, ratedDonor models.User
	require.NoError(t, env.db.First(&ratedReceiver, "id = ?", receiver.ID).Error)
	require.NoError(t, env.db.First(&ratedDonor, "id = ?", donor.ID).Error)
	assert.Equal(t, 5.0, ratedReceiver.AverageRating)
	assert.Equal(t, 1, ratedReceiver.TotalRatings)
	assert.Equal(t, 4.0, ratedDonor.AverageRating)
}

func TestSubmitRating_Gates(t *testing.T) {
	env := setupEnv(t)
	donor := createUser(t, env.db, models.UserRoleDonor, true, true)
	receiver := createUser(t, env.db, models.UserRoleReceiver, true, false)
	admin := createUser(t, env.db, models.UserRoleAdmin, true, false)
	stranger := createUser(t, env.db, models.UserRoleReceiver, true, false)

	_, request := createApprovedRequest(t, env, donor, receiver, admin)

	// Not completed yet.
	_, err := env.ratings.Submit(donor.ID, &dto.SubmitRatingRequest{RequestID: request.ID, Rating: 5})
	assert.Error(t, err)

	completeRequest(t, env, receiver, request)

	// Third parties cannot rate.
	_, err = env.ratings.Submit(stranger.ID, &dto.SubmitRatingRequest{RequestID: request.ID, Rating: 5})
	assert.Error(t, err)

	// Each direction only once.
	_, err = env.ratings.Submit(donor.ID, &dto.SubmitRatingRequest{RequestID: request.ID, Rating: 5})
	require.NoError(t, err)
	_, err = env.ratings.Submit(donor.ID, &dto.SubmitRatingRequest{RequestID: request.ID, Rating: 1})
	assert.Error(t, err)
}

func TestRatingAverageIsRoundedToOneDecimal(t *testing.T) {
	env := setupEnv(t)
	donor := createUser(t, env.db, models.UserRoleDonor, true, true)
	receiver := createUser(t, env.db, models.UserRoleReceiver, true, false)
	admin := createUser(t, env.db, models.UserRoleAdmin, true, false)

	// Three pickups rated 5, 4, 4 for the receiver: mean 4.333... -> 4.3.
	for _, score := range []int{5, 4, 4} {
		_, request := createApprovedRequest(t, env, donor, receiver, admin)
		completeRequest(t, env, receiver, request)
		_, err := env.ratings.Submit(donor.ID, &dto.SubmitRatingRequest{RequestID: request.ID, Rating: score})
		require.NoError(t, err)
	}

	var fresh models.User
	require.NoError(t, env.db.First(&fresh, "id = ?", receiver.ID).Error)
	assert.Equal(t, 4.3, fresh.AverageRating)
	assert.Equal(t, 3, fresh.TotalRatings)
}

func TestTrustPromotion_OnThirdQualifiedTransaction(t *testing.T) {
	env := setupEnv(t)
	donor := createUser(t, env.db, models.UserRoleDonor, true, true)
	receiver := createUser(t, env.db, models.UserRoleReceiver, true, false)
	admin := createUser(t, env.db, models.UserRoleAdmin, true, false)

	for i := 0; i < 3; i++ {
		_, request := createApprovedRequest(t, env, donor, receiver, admin)
		completeRequest(t, env, receiver, request)

		_, err := env.ratings.Submit(donor.ID, &dto.SubmitRatingRequest{RequestID: request.ID, Rating: 5})
		require.NoError(t, err)
		_, err = env.ratings.Submit(receiver.ID, &dto.SubmitRatingRequest{RequestID: request.ID, Rating: 5})
		require.NoError(t, err)

		var fresh models.User
		require.NoError(t, env.db.First(&fresh, "id = ?", receiver.ID).Error)
		if i < 2 {
			assert.False(t, fresh.IsTrusted, "no badge before the third completed transaction")
		} else {
			assert.True(t, fresh.IsTrusted, "badge granted on the third qualified transaction")
			assert.NotNil(t, fresh.TrustedAt)
			assert.Equal(t, 3, fresh.SuccessfulReceives)
		}
	}
}

func TestTrustPromotion_WithheldBelowRatingThreshold(t *testing.T) {
	env := setupEnv(t)
	donor := createUser(t, env.db, models.UserRoleDonor, true, true)
	receiver := createUser(t, env.db, models.UserRoleReceiver, true, false)
	admin := createUser(t, env.db, models.UserRoleAdmin, true, false)

	// Three completed pickups but a 3.0 average keeps the badge away.
	for i := 0; i < 3; i++ {
		_, request := createApprovedRequest(t, env, donor, receiver, admin)
		completeRequest(t, env, receiver, request)

		_, err := env.ratings.Submit(donor.ID, &dto.SubmitRatingRequest{RequestID: request.ID, Rating: 3})
		require.NoError(t, err)
		_, err = env.ratings.Submit(receiver.ID, &dto.SubmitRatingRequest{RequestID: request.ID, Rating: 5})
		require.NoError(t, err)
	}

	var fresh models.User
	require.NoError(t, env.db.First(&fresh, "id = ?", receiver.ID).Error)
	assert.False(t, fresh.IsTrusted)
	assert.Equal(t, 3, fresh.SuccessfulReceives, "the recount is stored even without promotion")
}

func TestTrustIsNeverAutoRevoked(t *testing.T) {
	env := setupEnv(t)
	donor := createUser(t, env.db, models.UserRoleDonor, true, true)
	receiver := createUser(t, env.db, models.UserRoleReceiver, true, true)
	admin := createUser(t, env.db, models.UserRoleAdmin, true, false)

	// A trusted receiver picking up a badly rated transaction keeps the badge.
	_, request := createApprovedRequest(t, env, donor, receiver, admin)
	completeRequest(t, env, receiver, request)

	_, err := env.ratings.Submit(donor.ID, &dto.SubmitRatingRequest{RequestID: request.ID, Rating: 1})
	require.NoError(t, err)
	_, err = env.ratings.Submit(receiver.ID, &dto.SubmitRatingRequest{RequestID: request.ID, Rating: 1})
	require.NoError(t, err)

	var fresh models.User
	require.NoError(t, env.db.First(&fresh, "id = ?", receiver.ID).Error)
	assert.True(t, fresh.IsTrusted)
}

func TestListRatingsForUser(t *testing.T) {
	env := setupEnv(t)
	donor := createUser(t, env.db, models.UserRoleDonor, true, true)
	receiver := createUser(t, env.db, models.UserRoleReceiver, true, false)
	admin := createUser(t, env.db, models.UserRoleAdmin, true, false)

	_, request := createApprovedRequest(t, env, donor, receiver, admin)
	completeRequest(t, env, receiver, request)

	_, err := env.ratings.Submit(donor.ID, &dto.SubmitRatingRequest{RequestID: request.ID, Rating: 5, Feedback: "great"})
	require.NoError(t, err)

	resp, err := env.ratings.ListForUser(receiver.ID, 1, 20)
	require.NoError(t, err)
	require.Len(t, resp.Ratings, 1)
	assert.Equal(t, 5, resp.Ratings[0].Rating)
	assert.Equal(t, int64(1), resp.Pagination.Total)

	// Participants see the pickup's ratings; outsiders do not.
	byRequest, err := env.ratings.ListForRequest(donor.ID, models.UserRoleDonor, request.ID)
	require.NoError(t, err)
	assert.Len(t, byRequest, 1)

	stranger := createUser(t, env.db, models.UserRoleReceiver, true, false)
	_, err = env.ratings.ListForRequest(stranger.ID, models.UserRoleReceiver, request.ID)
	assert.Error(t, err)
}
