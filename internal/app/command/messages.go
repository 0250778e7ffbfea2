package command

// Reply texts.
const (
	titleHelp      = "📋   Help Menu"
	descHelp       = "Here are all available commands:"
	titleMusicList = "🎵   Available Minecraft Songs"
	titleNowPlay   = "▶️   Now Playing: %s"
	titlePaused    = "⏸️   Paused the minecraft music."
	titleResumed   = "▶️   Resumed the minecraft music."
	titleSkipping  = "⏭️   Skipping to the next track..."
	titleRepeat    = "🔄   Repeat mode is now %s."
	titleShuffle   = "🔀   Shuffle mode is now %s."
	titleAdded     = "✅   Added to Queue"
	descAdded      = "`%s` has been added to the queue."
	titleRemoved   = "🗑️   Removed from Queue"
	descRemoved    = "`%s` has been removed from the queue."
	titleQueue     = "🎶   Current Queue"
	titleStopped   = "🛑   Stopped music."
	titleRecipe    = "🛠️   %s"
	titleOffline   = "💤   The jukebox is going offline. Playback has stopped."
	footerPage     = "Page %d of %d"

	msgMusicDirMissing = "The music folder is missing!"
	msgNoSongs         = "No Minecraft songs found!"
	msgNeedVoice       = "You need to be in a voice channel!"
	msgTrackNotFound   = "❌ Track `%s` not found! Use `/musiclist` to see available tracks."
	msgTrackMissing    = "❌ Track `%s` was missing, skipping..."
	msgAllMissing      = "❌ None of the next tracks could be found on disk. Playback stopped."
	msgNothingToPause  = "There is no music playing to pause."
	msgNothingToResume = "There is no paused music to resume."
	msgNothingToSkip   = "There's no track playing to skip!"
	msgInvalidState    = "Invalid state! Use `/%s on` or `/%s off`."
	msgNotInQueue      = "That track is not in the queue."
	msgRepeatBlocks    = "Repeat mode is ON. Turn it off to use the queue again."
	msgShuffleBlocks   = "Shuffle mode is ON. Turn it off to use the queue again."
	msgQueueEmpty      = "The queue is currently empty."
	msgQueueCleared    = "The queue has been cleared."
	msgNotInVoice      = "I'm not in a voice channel!"
	msgRecipeNotFound  = "Recipe for '%s' not found."
	msgGuildOnly       = "This command only works in a server."
	msgUnknownCommand  = "Unknown command."
	msgInternalError   = "Something went wrong. Please try again."
)

var pingResponses = []string{
	"Pong!",
	"Hello!",
	"Connection established!",
	"Hello there!",
	"Yes, I'm online!",
	"Wh- What?",
	"*creeper sound* WAAAAAHH!",
	"Redstone signal received!",
}

var facts = []string{
	"Creepers were created by accident when Notch tried to make a pig but messed up the dimensions.",
	"You can put a pumpkin on your head to avoid angering Endermen when looking at them.",
	"A day in Minecraft lasts 20 minutes in real-time.",
	"If you name a sheep 'jeb_' with a name tag, it will cycle through all wool colors.",
	"The End Portal frame cannot be broken in Survival mode, even with a pickaxe.",
	"Cats scare away Creepers, making them great pets for home protection.",
	"Despite their size, Ghasts make very quiet ambient sounds when idle.",
	"Wolves will attack any mob that harms their owner, except for Creepers.",
	"If you fall from a great height, you can survive by landing in water, even if it's just one block deep.",
	"Villagers have professions based on their job site block, such as a lectern for librarians.",
	"The first version of Minecraft was created in just six days.",
	"You can use honey blocks to reduce fall damage and move slower, useful for parkour.",
	"Pandas can have different personalities, like lazy, aggressive, and playful.",
	"Piglins love gold and won't attack you if you wear at least one piece of gold armor.",
	"The Wither is the only mob that can break obsidian blocks with its explosions.",
	"The Far Lands, a bugged terrain generation from older versions, existed millions of blocks away from spawn.",
	"Axolotls will help players fight underwater mobs like Drowned and Guardians.",
	"In older versions, Zombies could turn villagers into Zombie Villagers without a cure.",
	"Shulkers shoot projectiles that cause the Levitation effect, making players float.",
	"The Ender Dragon heals itself using End Crystals on top of obsidian pillars.",
	"You can ride a pig using a saddle, but you need a carrot on a stick to control it.",
	"Tamed parrots will dance when music from a jukebox is playing nearby.",
	"You can use campfires to cook food without needing fuel, but it takes longer.",
	"Snow Golems leave a trail of snow wherever they walk, except in warm biomes.",
	"You can break a boat and still get the boat back, making them a reusable transport item.",
	"If lightning strikes a Creeper, it becomes a Charged Creeper with a much stronger explosion.",
	"A turtle shell helmet grants the player 10 extra seconds of water breathing.",
	"If a Skeleton kills a Creeper, the Creeper drops a music disc.",
	"Hoes are the fastest tool for breaking leaves, despite being intended for farming.",
}
