package game

// Informational texts sent to clients.
const (
	msgWelcome            = "Welcome %s!"
	msgFriendDisconnected = "Your friend %s has disconnected"

	msgDirect = "[%s]:%s"
	msgChat   = "%s:%s"

	msgNowFriends    = "You are now %s's friend"
	msgFriendsAdded  = "Done adding friends"
	msgFriendsMissed = "Cannot find %d people / person"
	msgUnfriended    = "You have been unfriended by %s. %s can still see your chats however"

	msgTransferReceived = "Received %d %s from %s"
	msgTransferDone     = "Transfer completed"
	msgTransferFailed   = "Transfer by %s has failed"

	msgMobDetected = "Mob detected..."
	msgMobKilled   = "Adding %d GPs for killing mob. Difficulty is now %d."
	msgMobLost     = "You have %d hp remaining. Difficulty is now %d."

	msgCash = "GP: %d"
)

// gpUnit pluralizes the currency unit.
func gpUnit(amount int) string {
	if amount == 1 {
		return "GP"
	}
	return "GPs"
}
