package skill

const (
	promptWelcome          = "Welcome to Voice of San Diego! "
	promptMenu             = "Would you like to listen to what's new, the latest morning report, or the latest podcast? "
	promptGoodBye          = "Good bye! "
	promptPause            = " "
	promptNotSupported     = "Sorry, that command is not yet supported. "
	promptNotUnderstood    = "Sorry, I don't know what you mean. "
	promptCannotResume     = "Sorry, I don't remember where to resume. "
	promptPodcastMissing   = "Sorry, that podcast is no longer available. "
	promptErrorReport      = "Sorry, there was an error reading the morning report. Please try again later. "
	promptErrorPodcast     = "Sorry, there was an error playing the podcast. Please try again later. "
	promptErrorWhatIsNew   = "Sorry, there was an error looking up what's new. Please try again later. "
	promptErrorUnavailable = "Sorry, something went wrong. Please try again later. "

	playingFormat    = `Playing podcast entitled: "%s"`
	resumingFormat   = `Continue playing podcast entitled: "%s"`
	newReportFormat  = `The latest morning report is from %s, and is entitled: "%s". `
	newPodcastFormat = `The latest podcast was recorded %s, and is entitled: "%s". `

	summaryDateLayout = "Monday, January 2"
)
