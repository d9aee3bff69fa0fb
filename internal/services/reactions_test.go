package services

import (
	"errors"
	"testing"

	"hermes/internal/db"
	"hermes/internal/models"
)

func TestUpvoteTalliesAndReputation(t *testing.T) {
	setupTestDB(t)
	owner := seedAuthor(t, "owner")
	voters := seedAuthors(t, 2)
	item := seedItem(t, owner.ID)
	comment := seedComment(t, item.ID, owner.ID)

	// A single upvote lifts no tier, so the owner gains nothing yet.
	target, err := Upvote(TargetComment, comment.ID, voters[0].ID)
	if err != nil {
		t.Fatalf("Upvote: %v", err)
	}
	if c := target.Counts(); c.Upvotes != 1 || c.Experience != 10.0 {
		t.Errorf("after first upvote: %+v", c)
	}
	if got := reputationOf(t, owner.ID); got != 0 {
		t.Errorf("owner reputation after one upvote = %v, want 0", got)
	}

	// The second upvote crosses the first threshold.
	target, err = Upvote(TargetComment, comment.ID, voters[1].ID)
	if err != nil {
		t.Fatalf("Upvote: %v", err)
	}
	if c := target.Counts(); c.Upvotes != 2 || c.Experience != 11.0 {
		t.Errorf("after second upvote: %+v", c)
	}
	if got := reputationOf(t, owner.ID); got != 1.0 {
		t.Errorf("owner reputation = %v, want 1", got)
	}
}

func TestVoteSwitchesInPlace(t *testing.T) {
	setupTestDB(t)
	owner := seedAuthor(t, "owner")
	voter := seedAuthor(t, "voter")
	item := seedItem(t, owner.ID)
	comment := seedComment(t, item.ID, owner.ID)

	if _, err := Upvote(TargetComment, comment.ID, voter.ID); err != nil {
		t.Fatalf("Upvote: %v", err)
	}
	target, err := Downvote(TargetComment, comment.ID, voter.ID)
	if err != nil {
		t.Fatalf("Downvote: %v", err)
	}

	if n := reactionCount(t, "comment_id = ?", comment.ID); n != 1 {
		t.Fatalf("vote switch left %d reaction rows, want 1", n)
	}
	var reaction models.Reaction
	if err := db.DB.Where("comment_id = ?", comment.ID).First(&reaction).Error; err != nil {
		t.Fatalf("load reaction: %v", err)
	}
	if reaction.Kind != models.ReactionDownvote {
		t.Errorf("reaction kind = %v, want downvote", reaction.Kind)
	}

	if c := target.Counts(); c.Upvotes != 0 || c.Downvotes != 1 || c.Experience != 8.0 {
		t.Errorf("counts after switch: %+v", c)
	}
	// 0 for the upvote, then 8 - 10 for the downvote.
	if got := reputationOf(t, owner.ID); got != -2.0 {
		t.Errorf("owner reputation = %v, want -2", got)
	}
}

func TestUnvoteIsIdempotent(t *testing.T) {
	setupTestDB(t)
	owner := seedAuthor(t, "owner")
	voter := seedAuthor(t, "voter")
	item := seedItem(t, owner.ID)
	comment := seedComment(t, item.ID, owner.ID)

	// Removing a vote that never existed is a no-op, not an error.
	if _, err := Unvote(TargetComment, comment.ID, voter.ID); err != nil {
		t.Fatalf("Unvote without vote: %v", err)
	}

	if _, err := Downvote(TargetComment, comment.ID, voter.ID); err != nil {
		t.Fatalf("Downvote: %v", err)
	}
	target, err := Unvote(TargetComment, comment.ID, voter.ID)
	if err != nil {
		t.Fatalf("Unvote: %v", err)
	}

	if n := reactionCount(t, "comment_id = ?", comment.ID); n != 0 {
		t.Fatalf("%d reaction rows left after unvote, want 0", n)
	}
	if c := target.Counts(); c.Downvotes != 0 || c.Experience != 10.0 {
		t.Errorf("counts after unvote: %+v", c)
	}
	// The downvote's -2 was handed back on unvote.
	if got := reputationOf(t, owner.ID); got != 0 {
		t.Errorf("owner reputation = %v, want 0", got)
	}
}

func TestFlagIsIdempotent(t *testing.T) {
	setupTestDB(t)
	owner := seedAuthor(t, "owner")
	flagger := seedAuthor(t, "flagger")
	item := seedItem(t, owner.ID)
	comment := seedComment(t, item.ID, owner.ID)

	if _, err := Flag(TargetComment, comment.ID, flagger.ID); err != nil {
		t.Fatalf("Flag: %v", err)
	}
	target, err := Flag(TargetComment, comment.ID, flagger.ID)
	if err != nil {
		t.Fatalf("second Flag: %v", err)
	}

	if n := reactionCount(t, "comment_id = ? AND kind = ?", comment.ID, models.ReactionFlag); n != 1 {
		t.Fatalf("flagging twice left %d flag rows, want 1", n)
	}
	if c := target.Counts(); c.Flags != 1 || c.Experience != 5.0 {
		t.Errorf("counts after double flag: %+v", c)
	}
	if got := reputationOf(t, owner.ID); got != -5.0 {
		t.Errorf("owner reputation = %v, want -5 (applied once)", got)
	}
}

func TestVoteAndFlagTracksAreIndependent(t *testing.T) {
	setupTestDB(t)
	owner := seedAuthor(t, "owner")
	voter := seedAuthor(t, "voter")
	item := seedItem(t, owner.ID)
	comment := seedComment(t, item.ID, owner.ID)

	if _, err := Upvote(TargetComment, comment.ID, voter.ID); err != nil {
		t.Fatalf("Upvote: %v", err)
	}
	target, err := Flag(TargetComment, comment.ID, voter.ID)
	if err != nil {
		t.Fatalf("Flag: %v", err)
	}

	// Two live rows: the untouched upvote plus the new flag.
	if n := reactionCount(t, "comment_id = ?", comment.ID); n != 2 {
		t.Fatalf("%d reaction rows, want 2", n)
	}
	if c := target.Counts(); c.Upvotes != 1 || c.Flags != 1 {
		t.Errorf("counts with both tracks: %+v", c)
	}

	target, err = Unflag(TargetComment, comment.ID, voter.ID)
	if err != nil {
		t.Fatalf("Unflag: %v", err)
	}
	if c := target.Counts(); c.Upvotes != 1 || c.Flags != 0 {
		t.Errorf("unflag touched the vote track: %+v", c)
	}
	var reaction models.Reaction
	if err := db.DB.Where("comment_id = ?", comment.ID).First(&reaction).Error; err != nil {
		t.Fatalf("load surviving reaction: %v", err)
	}
	if reaction.Kind != models.ReactionUpvote {
		t.Errorf("surviving reaction kind = %v, want upvote", reaction.Kind)
	}
}

func TestRecomputeWithoutLedgerChangeIsNoOp(t *testing.T) {
	setupTestDB(t)
	owner := seedAuthor(t, "owner")
	voter := seedAuthor(t, "voter")
	item := seedItem(t, owner.ID)
	comment := seedComment(t, item.ID, owner.ID)

	if _, err := Downvote(TargetComment, comment.ID, voter.ID); err != nil {
		t.Fatalf("Downvote: %v", err)
	}
	before := reputationOf(t, owner.ID)

	for i := 0; i < 3; i++ {
		if _, err := RecomputeScore(TargetComment, comment.ID); err != nil {
			t.Fatalf("RecomputeScore: %v", err)
		}
	}

	if got := reputationOf(t, owner.ID); got != before {
		t.Errorf("recompute without ledger change moved reputation %v -> %v", before, got)
	}

	var logs int64
	db.DB.Model(&models.ReputationLog{}).Where("author_id = ?", owner.ID).Count(&logs)
	if logs != 1 {
		t.Errorf("%d audit rows, want 1 (no rows for zero deltas)", logs)
	}
}

func TestReputationTelescopes(t *testing.T) {
	setupTestDB(t)
	owner := seedAuthor(t, "owner")
	voters := seedAuthors(t, 6)
	item := seedItem(t, owner.ID)
	comment := seedComment(t, item.ID, owner.ID)

	// A churn of reactions; only the final state should matter.
	var target models.Reactable
	var err error
	steps := []func() (models.Reactable, error){
		func() (models.Reactable, error) { return Upvote(TargetComment, comment.ID, voters[0].ID) },
		func() (models.Reactable, error) { return Flag(TargetComment, comment.ID, voters[1].ID) },
		func() (models.Reactable, error) { return Downvote(TargetComment, comment.ID, voters[2].ID) },
		func() (models.Reactable, error) { return Upvote(TargetComment, comment.ID, voters[3].ID) },
		func() (models.Reactable, error) { return Unflag(TargetComment, comment.ID, voters[1].ID) },
		func() (models.Reactable, error) { return Upvote(TargetComment, comment.ID, voters[2].ID) },
		func() (models.Reactable, error) { return Upvote(TargetComment, comment.ID, voters[4].ID) },
		func() (models.Reactable, error) { return Unvote(TargetComment, comment.ID, voters[4].ID) },
		func() (models.Reactable, error) { return Flag(TargetComment, comment.ID, voters[5].ID) },
	}
	for i, step := range steps {
		if target, err = step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}

	finalScore := target.Counts().Experience
	if got := reputationOf(t, owner.ID); got != finalScore-models.BaseScore {
		t.Errorf("reputation = %v, want final score %v - base %v = %v",
			got, finalScore, models.BaseScore, finalScore-models.BaseScore)
	}
}

func TestPhotoReactions(t *testing.T) {
	setupTestDB(t)
	owner := seedAuthor(t, "owner")
	flagger := seedAuthor(t, "flagger")
	item := seedItem(t, owner.ID)
	photo := seedPhoto(t, item.ID, owner.ID)

	target, err := Flag(TargetPhoto, photo.ID, flagger.ID)
	if err != nil {
		t.Fatalf("Flag photo: %v", err)
	}
	if c := target.Counts(); c.Flags != 1 || c.Experience != 5.0 {
		t.Errorf("photo counts: %+v", c)
	}

	var entry models.ReputationLog
	if err := db.DB.Where("author_id = ?", owner.ID).First(&entry).Error; err != nil {
		t.Fatalf("load audit row: %v", err)
	}
	if entry.Reason != ReasonPhotoScored || entry.Delta != -5.0 {
		t.Errorf("audit row = %+v", entry)
	}
}

func TestUnknownTargetType(t *testing.T) {
	setupTestDB(t)

	if _, err := Upvote("item", 1, 1); !errors.Is(err, ErrUnknownTarget) {
		t.Errorf("Upvote on unknown target: err = %v, want ErrUnknownTarget", err)
	}
}
