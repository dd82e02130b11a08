package controllers

import (
	"strconv"

	"github.com/notestackapp/notestack/app/models"
	"github.com/notestackapp/notestack/internal/pkg/constants"
)

// callbackFacts is the state the provider callback decision runs on: the
// existing connection's account (0 when none), the caller's account (0 when
// unauthenticated) and the account whose email matches the external profile
// (0 when none).
type callbackFacts struct {
	ConnectionAccountID uint
	CallerAccountID     uint
	EmailAccountID      uint
}

type callbackAction int

const (
	// connection exists, caller owns it: nothing to do
	actionAlreadyConnectedSelf callbackAction = iota
	// connection exists but belongs to someone else: nothing mutated
	actionAlreadyConnectedOther
	// authenticated caller links a fresh provider identity
	actionLinkToCaller
	// known connection, anonymous caller: plain login
	actionLogin
	// anonymous caller whose profile email matches an account: link + login
	actionLinkByEmail
	// brand-new identity: onboarding
	actionOnboard
)

// decideCallback picks the branch for a provider callback. Branches are
// ordered; the first match wins when they overlap.
func decideCallback(f callbackFacts) callbackAction {
	switch {
	case f.ConnectionAccountID != 0 && f.CallerAccountID != 0:
		if f.ConnectionAccountID == f.CallerAccountID {
			return actionAlreadyConnectedSelf
		}
		return actionAlreadyConnectedOther
	case f.CallerAccountID != 0:
		return actionLinkToCaller
	case f.ConnectionAccountID != 0:
		return actionLogin
	case f.EmailAccountID != 0:
		return actionLinkByEmail
	default:
		return actionOnboard
	}
}

// linkResult classifies what a connection insert actually produced. The
// unique (provider, provider_account_id) index makes concurrent callbacks
// race; the insert's loser gets the winner's row back, or nothing at all
// when that row is deleted before the re-read.
type linkResult int

const (
	linkCreated linkResult = iota
	// a concurrent callback bound the identity to another account
	linkRacedOther
	// the duplicate row vanished between the failed insert and the re-read
	linkVanished
)

func classifyLink(linked *models.Connection, wantAccountID uint) linkResult {
	switch {
	case linked == nil:
		return linkVanished
	case linked.AccountID != wantAccountID:
		return linkRacedOther
	default:
		return linkCreated
	}
}

// loginOutcome is how an authenticated provider login completes: immediate
// session issuance, or deferral to a verification challenge. In the deferred
// case no auth cookie is set.
type loginOutcome struct {
	Deferred  bool
	Challenge string
}

// decideLogin defers session issuance when the account has an active
// two-factor verification. The challenge URL carries the verification type,
// the target account id and the post-challenge redirect.
func decideLogin(accountID uint, has2FA bool, redirectTo string) loginOutcome {
	if !has2FA {
		return loginOutcome{}
	}

	target := strconv.FormatUint(uint64(accountID), 10)
	challenge := withQuery(constants.VerifyRoute, "type", models.VERIFICATION_TYPE_2FA)
	challenge = withQuery(challenge, "target", target)
	challenge = withQuery(challenge, "redirectTo", redirectTo)

	return loginOutcome{Deferred: true, Challenge: challenge}
}
