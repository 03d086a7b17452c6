package bot

// Canned reply texts sent back over WhatsApp. These are user-facing copy;
// keep wording stable because sellers learn the commands from them.
const (
	replyWelcome = `👋 नमस्ते! Welcome to KalaaSaarathi!

Send me a photo of your handmade craft and I'll:
1. 📸 Analyze it with AI
2. 🛍️ Create an online shop
3. 📊 Suggest a fair price
4. 📦 Help with shipping

Commands:
• myproducts - List your items
• edit PRODUCT_ID price 500 - Change price
• edit PRODUCT_ID description "New text" - Update description
• edit PRODUCT_ID image + send photo - Change image

Just send a photo to get started!`

	replyUnrecognized = "📸 Please send a photo of your craft to get started! I'll analyze it and create a shop for you.\n\nType 'help' for commands."

	replyImageAck = "📸 Got your image! Processing it now with AI... I'll send the analysis and shop link in a moment."

	replyReelAck = "🎬 Got your reel! Publishing it to your shop now... I'll send the link in a moment."

	replyReelPrompt = "🎥 Nice video! To publish it as a reel, resend it with a caption starting with 'reel'.\nExample: reel My new blue pottery collection"

	replyEditUsage = "Usage: edit PRODUCT_ID FIELD VALUE\nExample: edit abc123 price 500\n\nFields: price, description, title, category, image"

	replyPriceNotNumber = "❌ Price must be a number. Example: edit abc123 price 500"

	replyEditImageNoMedia = "❌ Please send an image with the edit command: edit PRODUCT_ID image"

	replyInvalidEditField = "❌ Invalid field. Use: price, description, title, category, or image"

	replyProductNotFound = "❌ Product not found. Check the product ID."

	replyNoProducts = "You don't have any products yet. Send a photo to create your first shop!"

	replyNoProfile = "You don't have a profile yet. Create one with:\nprofile set name YOUR_NAME\nprofile set region YOUR_REGION"

	replyInvalidProfileField = "❌ Invalid field. Use: name, region, bio, or skills"
)
