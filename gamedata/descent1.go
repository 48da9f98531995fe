package gamedata

// Table sizes of the registered Descent 1 game data.
const (
	MaxTextures    = 800
	MaxSounds      = 250
	MaxVClips      = 70
	MaxEffects     = 60
	VClipMaxFrames = 30
)

var tmapInfo = Struct("",
	Str("Filename", 13),
	Uint8("Flags"),
	Fix("Lighting"),
	Fix("Damage"),
	Int32("EClipNum"),
)

var vclipFields = Schema{
	Fix("PlayTime"),
	Int32("NumFrames"),
	Fix("FrameTime"),
	Int32("Flags"),
	Int16("SoundNum"),
	Array("Frames", VClipMaxFrames, Uint16("")),
	Fix("LightValue"),
}

var eclip = Struct("",
	Struct("VClip", vclipFields...),
	Fix("TimeLeft"),
	Int32("FrameCount"),
	Int16("ChangingWallTexture"),
	Int16("ChangingObjectTexture"),
	Int32("Flags"),
	Int32("CritClip"),
	Int32("DestBitmapNum"),
	Int32("DestVClip"),
	Int32("DestEClip"),
	Fix("DestSize"),
	Int32("SoundNum"),
	Int32("SegNum"),
	Int32("SideNum"),
)

// Descent1 covers the texture, sound and animation tables at the start
// of a Descent 1 PIG. Robot, weapon and model tables follow in the
// Remainder field.
var Descent1 = Schema{
	Int32("NumTextures"),
	Array("Textures", MaxTextures, Uint16("")),
	Array("TmapInfo", MaxTextures, tmapInfo),
	Raw("Sounds", MaxSounds),
	Raw("AltSounds", MaxSounds),
	Int32("NumVClips"),
	Array("VClips", MaxVClips, Struct("", vclipFields...)),
	Int32("NumEffects"),
	Array("Effects", MaxEffects, eclip),
	Rest("Remainder"),
}
