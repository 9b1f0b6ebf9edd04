package enums

type SwipeAction string

const (
	SwipeActionLike SwipeAction = "LIKE"
	SwipeActionSkip SwipeAction = "SKIP"
)
