package site

// Static page templates. Styling is kept minimal on purpose; the hosted
// shop front-end carries its own assets and these pages only need to stand
// alone when linked from chat.

const productPageTmpl = `<!DOCTYPE html>
<html lang="hi">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Product.Title}} - KalaaSaarathi</title>
</head>
<body>
<header><a href="{{.BaseURL}}/">&larr; Back to KalaaSaarathi</a></header>
<main>
<h1>{{.Product.Title}}</h1>
<div class="gallery">
{{range .Product.Images}}<img src="{{.}}" alt="{{$.Product.Title}}">
{{end}}</div>
<p>{{.Product.Description}}</p>
<p class="price">&#8377;{{.Product.Price}}</p>
<p class="category">{{.Product.Category}}</p>
{{if .Product.ArtisanName}}<section class="artisan">
<h3>Crafted by Artisan</h3>
<p>{{.Product.ArtisanName}}{{if .Product.ArtisanRegion}} from {{.Product.ArtisanRegion}}{{end}}</p>
{{if .Product.OrdersCompleted}}<p>{{.Product.OrdersCompleted}} orders completed{{if .Product.Rating}} &bull; {{.Product.Rating}}/5 rating{{end}}</p>{{end}}
</section>{{end}}
<a class="buy" href="https://wa.me/14155238886?text=I%20want%20to%20buy%20{{.Product.ID}}">Buy on WhatsApp</a>
<footer><p>Product ID: {{.Product.ID}}</p></footer>
</main>
</body>
</html>
`

const indexPageTmpl = `<!DOCTYPE html>
<html lang="hi">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>KalaaSaarathi - Handmade with Love</title>
</head>
<body>
<h1>KalaaSaarathi</h1>
<section class="products">
{{range .Products}}<article>
<a href="{{$.BaseURL}}/product/{{.ID}}.html">{{if .Images}}<img src="{{index .Images 0}}" alt="{{.Title}}">{{end}}
<h2>{{.Title}}</h2></a>
<p class="price">&#8377;{{.Price}}</p>
</article>
{{end}}</section>
{{if .Reels}}<section class="reels">
<h2>Reels</h2>
{{range .Reels}}<article>
<video src="{{.VideoURL}}" controls></video>
<p>{{.Caption}}</p>
{{if .OwnerName}}<p class="owner">{{.OwnerName}}{{if .OwnerRegion}}, {{.OwnerRegion}}{{end}}</p>{{end}}
</article>
{{end}}</section>{{end}}
</body>
</html>
`

const sellerPageTmpl = `<!DOCTYPE html>
<html lang="hi">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{if .Seller.Name}}{{.Seller.Name}}{{else}}Artisan{{end}} - KalaaSaarathi</title>
</head>
<body>
<header><a href="{{.BaseURL}}/">&larr; Back to KalaaSaarathi</a></header>
<main>
<h1>{{if .Seller.Name}}{{.Seller.Name}}{{else}}Local Artisan{{end}}</h1>
{{if .Seller.Region}}<p class="region">{{.Seller.Region}}</p>{{end}}
{{if .Seller.Bio}}<p class="bio">{{.Seller.Bio}}</p>{{end}}
{{if .Seller.Skills}}<ul class="skills">
{{range .Seller.Skills}}<li>{{.}}</li>
{{end}}</ul>{{end}}
<section class="products">
{{range .Products}}<article>
<a href="{{$.BaseURL}}/product/{{.ID}}.html">{{if .Images}}<img src="{{index .Images 0}}" alt="{{.Title}}">{{end}}
<h2>{{.Title}}</h2></a>
<p class="price">&#8377;{{.Price}}</p>
</article>
{{end}}</section>
</main>
</body>
</html>
`
