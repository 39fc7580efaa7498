// Package social implements the account and feed core of a social
// networking backend: user accounts with email verification, access and
// refresh token issuance, administrative bans, follow relationships, posts,
// and the shared list/query pipeline behind every collection endpoint.
//
// The package is organized in three layers:
//
//   - repositories (repo_*.go) persist accounts, bans, verification codes,
//     follow edges, and posts through bun
//   - command handlers (command_*.go) run the use cases: registration,
//     activation, ban/unban, follow/unfollow
//   - the Auther and TokenService gate every credential: login, refresh,
//     and per-request access checks all re-evaluate activation and ban state
//
// HTTP controllers (http_controller.go) and the fiber middleware under
// middleware/jwtware expose the package over JSON.
package social
