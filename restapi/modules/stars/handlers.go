// Package stars proxies the repository host's star check and toggle for the
// logged-in user's token.
package stars

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/nuxtcare/nuxtcare-backend/enrich"
	"github.com/nuxtcare/nuxtcare-backend/util"
)

// GetStar reports whether the caller has starred the repository.
// ?repo=owner/repo is required; the user's token rides in the Authorization
// header.
func GetStar(client *enrich.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, repo, errResp := params(c)
		if errResp != nil {
			return errResp(c)
		}

		starred, err := client.Starred(c.Context(), token, repo)
		if err != nil {
			return starError(c, err)
		}
		return c.JSON(fiber.Map{"starred": starred})
	}
}

// PostStar toggles the star and returns the new state.
func PostStar(client *enrich.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, repo, errResp := params(c)
		if errResp != nil {
			return errResp(c)
		}

		starred, err := client.ToggleStar(c.Context(), token, repo)
		if err != nil {
			return starError(c, err)
		}
		return c.JSON(fiber.Map{"starred": starred})
	}
}

// starError distinguishes an expired token, which the consumer answers with a
// forced re-login, from ordinary upstream failure.
func starError(c *fiber.Ctx, err error) error {
	if enrich.IsReauthError(err) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":  "github token expired",
			"reauth": true,
		})
	}
	return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
}

func params(c *fiber.Ctx) (token, repo string, errResp fiber.Handler) {
	token = strings.TrimPrefix(c.Get("Authorization"), "Bearer ")
	if token == "" {
		return "", "", func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error":  "authorization token required",
				"reauth": true,
			})
		}
	}
	repo = util.CleanRepoPath(c.Query("repo"))
	if repo == "" {
		return "", "", func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "repo query parameter required (owner/repo)",
			})
		}
	}
	return token, repo, nil
}
